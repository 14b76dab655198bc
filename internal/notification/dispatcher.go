package notification

import (
	"context"
	"errors"
	"fmt"
	"time"
	
	"github.com/katatrina/mentors-notifier/internal/eligibility"
	"github.com/katatrina/mentors-notifier/internal/store"
	"github.com/rs/zerolog/log"
)

// RecipientStore is the part of store.Store the dispatcher needs.
type RecipientStore interface {
	GetUser(ctx context.Context, userID string) (*store.User, error)
	RemoveFCMTokens(ctx context.Context, userID string, tokens ...string) error
}

const (
	SkipReasonRecipientNotFound = "recipient_not_found"
	SkipReasonNoTokens          = "no_fcm_tokens"
)

// DeliveryResult summarises one Deliver call.
type DeliveryResult struct {
	SkipReason string
	Decision   eligibility.Decision
	Sent       int
	Failed     int
	Pruned     int
}

// Dispatcher delivers a notification to every device of its recipient, if
// the recipient's preferences allow it.
type Dispatcher struct {
	recipients RecipientStore
	sender     Sender
	location   *time.Location
	now        func() time.Time
	
	classify func(error) TokenFailure
}

func NewDispatcher(recipients RecipientStore, sender Sender, location *time.Location) *Dispatcher {
	if location == nil {
		location = time.UTC
	}
	
	return &Dispatcher{
		recipients: recipients,
		sender:     sender,
		location:   location,
		now:        time.Now,
		
		classify: ClassifySendError,
	}
}

// Deliver only returns an error when the recipient could not be read, so the
// caller can retry before anything was sent. Per-token failures are logged.
func (d *Dispatcher) Deliver(ctx context.Context, n *Notification) (*DeliveryResult, error) {
	result := &DeliveryResult{}
	
	user, err := d.recipients.GetUser(ctx, n.RecipientID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			log.Error().Str("recipient_id", n.RecipientID).Msg("recipient not found, skipping notification")
			result.SkipReason = SkipReasonRecipientNotFound
			return result, nil
		}
		
		return nil, fmt.Errorf("failed to get recipient %s: %w", n.RecipientID, err)
	}
	
	tokens := uniqueTokens(user.FCMTokens)
	if len(tokens) == 0 {
		log.Warn().Str("recipient_id", n.RecipientID).Msg("no fcm tokens found for recipient")
		result.SkipReason = SkipReasonNoTokens
		return result, nil
	}
	
	result.Decision = eligibility.Decide(preferenceOf(user), d.now().In(d.location))
	if result.Decision != eligibility.Notify {
		log.Info().
			Str("recipient_id", n.RecipientID).
			Str("decision", result.Decision.String()).
			Msg("notification suppressed by user preferences")
		return result, nil
	}
	
	var unregistered, rejected []string
	for _, token := range tokens {
		if err = d.sender.Send(ctx, token, n); err != nil {
			result.Failed++
			log.Error().Err(err).
				Str("recipient_id", n.RecipientID).
				Str("token", truncateToken(token)).
				Msg("failed to send fcm message")
			
			switch d.classify(err) {
			case TokenFailureUnregistered:
				unregistered = append(unregistered, token)
			case TokenFailureRejected:
				rejected = append(rejected, token)
			}
			continue
		}
		
		result.Sent++
	}
	
	// A rejected token is only known to be bad once the same message was
	// accepted for another token.
	invalidTokens := unregistered
	if len(rejected) > 0 {
		if result.Sent > 0 {
			invalidTokens = append(invalidTokens, rejected...)
		} else {
			log.Warn().Str("recipient_id", n.RecipientID).Int("count", len(rejected)).
				Msg("message rejected for every token, keeping tokens")
		}
	}
	
	d.pruneTokens(ctx, n.RecipientID, invalidTokens, result)
	
	log.Info().
		Str("recipient_id", n.RecipientID).
		Str("screen", n.Action.Screen).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("notification delivered")
	
	return result, nil
}

func (d *Dispatcher) pruneTokens(ctx context.Context, recipientID string, tokens []string, result *DeliveryResult) {
	if len(tokens) == 0 {
		return
	}
	
	if err := d.recipients.RemoveFCMTokens(ctx, recipientID, tokens...); err != nil {
		log.Warn().Err(err).Str("recipient_id", recipientID).Msg("failed to prune invalid fcm tokens")
		return
	}
	
	result.Pruned = len(tokens)
	log.Info().Str("recipient_id", recipientID).Int("count", result.Pruned).Msg("pruned invalid fcm tokens")
}

// Evaluate reports what Deliver would decide for userID at the given instant.
func (d *Dispatcher) Evaluate(ctx context.Context, userID string, at time.Time) (eligibility.Decision, error) {
	user, err := d.recipients.GetUser(ctx, userID)
	if err != nil {
		return eligibility.Notify, err
	}
	
	return eligibility.Decide(preferenceOf(user), at.In(d.location)), nil
}

// preferenceOf returns nil when the user has no usable settings.
func preferenceOf(user *store.User) *eligibility.Preference {
	if user.NotificationSettings == nil {
		return nil
	}
	
	pref, err := user.NotificationSettings.Preference()
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("invalid notification settings, using defaults")
		return nil
	}
	
	return pref
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		
		seen[token] = struct{}{}
		result = append(result, token)
	}
	
	return result
}
