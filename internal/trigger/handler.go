package trigger

import (
	"context"
	"errors"
	"fmt"
	
	"github.com/hibiken/asynq"
	"github.com/katatrina/mentors-notifier/internal/event"
	"github.com/katatrina/mentors-notifier/internal/notification"
	"github.com/katatrina/mentors-notifier/internal/store"
	"github.com/katatrina/mentors-notifier/internal/worker"
	"github.com/rs/zerolog/log"
)

// Store is the read side of store.Store used to resolve trigger documents.
type Store interface {
	GetUser(ctx context.Context, userID string) (*store.User, error)
	GetBoard(ctx context.Context, boardID string) (*store.Board, error)
	GetComment(ctx context.Context, boardID, commentID string) (*store.Comment, error)
	GetMatch(ctx context.Context, matchID string) (*store.Match, error)
	GetCategory(ctx context.Context, categoryID string) (*store.Category, error)
	GetChat(ctx context.Context, chatID string) (*store.Chat, error)
	GetChatMessage(ctx context.Context, chatID, messageID string) (*store.ChatMessage, error)
}

// errSkip marks events whose documents cannot produce a notification.
var errSkip = errors.New("skip event")

// Handler turns document creation events into send-notification tasks.
type Handler struct {
	store       Store
	distributor worker.TaskDistributor
	guard       Guard
}

func NewHandler(store Store, distributor worker.TaskDistributor, guard Guard) *Handler {
	return &Handler{
		store:       store,
		distributor: distributor,
		guard:       guard,
	}
}

func (h *Handler) HandleEvent(ctx context.Context, e event.Event) error {
	claimed, err := h.guard.Claim(ctx, e.Document)
	if err != nil {
		return fmt.Errorf("failed to claim event: %w", err)
	}
	if !claimed {
		log.Info().Str("event_id", e.ID).Str("document", e.Document).Msg("event already handled, skipping")
		return nil
	}
	
	notifications, err := h.notificationsFor(ctx, e)
	if err == nil {
		err = h.distribute(ctx, e, notifications)
	}
	
	if err != nil {
		if errors.Is(err, errSkip) {
			log.Error().Str("type", e.Type).Str("document", e.Document).Msg(err.Error())
			return nil
		}
		
		if releaseErr := h.guard.Release(ctx, e.Document); releaseErr != nil {
			log.Warn().Err(releaseErr).Str("document", e.Document).Msg("failed to release event claim")
		}
		return err
	}
	
	log.Info().Str("type", e.Type).Str("document", e.Document).
		Int("notifications", len(notifications)).Msg("event handled")
	return nil
}

func (h *Handler) notificationsFor(ctx context.Context, e event.Event) ([]*notification.Notification, error) {
	switch e.Type {
	case event.EventTypeCommentCreated:
		return h.commentNotifications(ctx, e.Params["board_id"], e.Params["comment_id"])
	case event.EventTypeMatchCreated:
		return h.matchNotifications(ctx, e.Params["match_id"])
	case event.EventTypeChatMessageCreated:
		return h.chatMessageNotifications(ctx, e.Params["chat_id"], e.Params["message_id"])
	default:
		return nil, fmt.Errorf("%w: unsupported event type %q", errSkip, e.Type)
	}
}

// queueFor puts match notifications on the critical queue.
func queueFor(eventType string) string {
	if eventType == event.EventTypeMatchCreated {
		return worker.QueueCritical
	}
	
	return worker.QueueDefault
}

func (h *Handler) distribute(ctx context.Context, e event.Event, notifications []*notification.Notification) error {
	queue := asynq.Queue(queueFor(e.Type))
	for _, n := range notifications {
		n.EventID = e.ID
		
		err := h.distributor.DistributeTaskSendNotification(ctx, &worker.PayloadSendNotification{
			Notification: *n,
		}, queue)
		if err != nil {
			return fmt.Errorf("failed to distribute notification for %s: %w", n.RecipientID, err)
		}
	}
	
	return nil
}

// lookupError converts a missing document into errSkip.
func lookupError(err error, what string) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s not found", errSkip, what)
	}
	
	return fmt.Errorf("failed to get %s: %w", what, err)
}
