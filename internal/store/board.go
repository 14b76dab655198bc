package store

import (
	"context"
)

func (s *FirestoreStore) GetBoard(ctx context.Context, boardID string) (*Board, error) {
	var board Board
	if err := getDocument(ctx, s.client.Collection(CollectionBoards).Doc(boardID), &board); err != nil {
		return nil, err
	}
	
	board.ID = boardID
	return &board, nil
}

func (s *FirestoreStore) GetComment(ctx context.Context, boardID, commentID string) (*Comment, error) {
	ref := s.client.Collection(CollectionBoards).Doc(boardID).Collection(CollectionComments).Doc(commentID)
	
	var comment Comment
	if err := getDocument(ctx, ref, &comment); err != nil {
		return nil, err
	}
	
	comment.ID = commentID
	comment.BoardID = boardID
	return &comment, nil
}
