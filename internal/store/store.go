package store

import (
	"context"
	"fmt"
	
	"cloud.google.com/go/firestore"
)

// Store provides read access to the documents that drive notifications, and
// write access to the device tokens stored on user documents.
type Store interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	GetBoard(ctx context.Context, boardID string) (*Board, error)
	GetComment(ctx context.Context, boardID, commentID string) (*Comment, error)
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	GetCategory(ctx context.Context, categoryID string) (*Category, error)
	GetChat(ctx context.Context, chatID string) (*Chat, error)
	GetChatMessage(ctx context.Context, chatID, messageID string) (*ChatMessage, error)
	RemoveFCMTokens(ctx context.Context, userID string, tokens ...string) error
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

// getDocument reads ref into dst. Missing documents are reported as ErrRecordNotFound.
func getDocument(ctx context.Context, ref *firestore.DocumentRef, dst interface{}) error {
	snapshot, err := ref.Get(ctx)
	if err != nil {
		return wrapNotFound(err)
	}
	
	if err = snapshot.DataTo(dst); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", ref.Path, err)
	}
	
	return nil
}
