package trigger

import (
	"context"
	"fmt"
	
	"github.com/katatrina/mentors-notifier/internal/notification"
)

// commentNotifications notifies the board owner about a new comment.
func (h *Handler) commentNotifications(ctx context.Context, boardID, commentID string) ([]*notification.Notification, error) {
	comment, err := h.store.GetComment(ctx, boardID, commentID)
	if err != nil {
		return nil, lookupError(err, "comment")
	}
	
	if comment.AuthorID == "" || comment.Content == "" {
		return nil, fmt.Errorf("%w: invalid comment data", errSkip)
	}
	
	board, err := h.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, lookupError(err, "board")
	}
	
	if board.AuthorID == "" {
		return nil, fmt.Errorf("%w: board owner ID not found", errSkip)
	}
	
	return []*notification.Notification{
		notification.NewCommentNotification(board, comment),
	}, nil
}
