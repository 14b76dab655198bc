package trigger

import (
	"context"
	"errors"
	"fmt"
	
	"github.com/katatrina/mentors-notifier/internal/notification"
	"github.com/katatrina/mentors-notifier/internal/store"
)

// chatMessageNotifications notifies the other participant of a chat about a new message.
func (h *Handler) chatMessageNotifications(ctx context.Context, chatID, messageID string) ([]*notification.Notification, error) {
	message, err := h.store.GetChatMessage(ctx, chatID, messageID)
	if err != nil {
		return nil, lookupError(err, "message")
	}
	
	if message.SenderID == "" || message.Content == "" {
		return nil, fmt.Errorf("%w: invalid message data", errSkip)
	}
	
	chat, err := h.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, lookupError(err, "chat")
	}
	
	recipientID, ok := chat.Recipient(message.SenderID)
	if !ok {
		return nil, fmt.Errorf("%w: recipients not found", errSkip)
	}
	
	var nickname string
	sender, err := h.store.GetUser(ctx, message.SenderID)
	switch {
	case err == nil:
		nickname = sender.Nickname
	case !errors.Is(err, store.ErrRecordNotFound):
		return nil, lookupError(err, "sender")
	}
	
	return []*notification.Notification{
		notification.NewChatMessageNotification(recipientID, nickname, message),
	}, nil
}
