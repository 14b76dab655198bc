package notification

import (
	"context"
	"fmt"
	
	"firebase.google.com/go/v4/messaging"
)

// Sender delivers a notification to a single device token.
type Sender interface {
	Send(ctx context.Context, token string, n *Notification) error
}

type FCMSender struct {
	client           *messaging.Client
	androidChannelID string
}

func NewFCMSender(client *messaging.Client, androidChannelID string) *FCMSender {
	return &FCMSender{
		client:           client,
		androidChannelID: androidChannelID,
	}
}

func (s *FCMSender) Send(ctx context.Context, token string, n *Notification) error {
	message, err := s.buildMessage(token, n)
	if err != nil {
		return err
	}
	
	// The messaging error helpers use type assertions, so err is returned unwrapped.
	_, err = s.client.Send(ctx, message)
	return err
}

func (s *FCMSender) buildMessage(token string, n *Notification) (*messaging.Message, error) {
	action, err := n.Action.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode action: %w", err)
	}
	
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: map[string]string{
			"action": action,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if s.androidChannelID != "" {
		message.Android.Notification = &messaging.AndroidNotification{
			ChannelID: s.androidChannelID,
		}
	}
	
	return message, nil
}

// TokenFailure classifies a failed send to a single token.
type TokenFailure int

const (
	TokenFailureTransient TokenFailure = iota
	TokenFailureUnregistered
	// TokenFailureRejected is INVALID_ARGUMENT, which FCM returns for a
	// malformed token and for an oversized or malformed payload alike.
	TokenFailureRejected
)

func ClassifySendError(err error) TokenFailure {
	switch {
	case messaging.IsUnregistered(err):
		return TokenFailureUnregistered
	case messaging.IsInvalidArgument(err):
		return TokenFailureRejected
	default:
		return TokenFailureTransient
	}
}

// truncateToken keeps device tokens out of the logs.
func truncateToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	
	return token[:6] + "..." + token[len(token)-6:]
}
