package trigger

import (
	"context"
	"errors"
	"fmt"
	
	"github.com/katatrina/mentors-notifier/internal/notification"
	"github.com/katatrina/mentors-notifier/internal/store"
)

// matchNotifications notifies both the mentee and the mentor of a new match.
func (h *Handler) matchNotifications(ctx context.Context, matchID string) ([]*notification.Notification, error) {
	match, err := h.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, lookupError(err, "match")
	}
	
	if match.MenteeID == "" || match.MentorID == "" || match.CategoryID == "" {
		return nil, fmt.Errorf("%w: invalid match data", errSkip)
	}
	
	// A missing category still produces notifications with a placeholder name.
	var categoryName string
	category, err := h.store.GetCategory(ctx, match.CategoryID)
	switch {
	case err == nil:
		categoryName = category.Name
	case !errors.Is(err, store.ErrRecordNotFound):
		return nil, lookupError(err, "category")
	}
	
	return notification.NewMatchNotifications(match, categoryName), nil
}
