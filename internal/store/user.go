package store

import (
	"context"
	"fmt"
	
	"cloud.google.com/go/firestore"
)

func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := getDocument(ctx, s.client.Collection(CollectionUsers).Doc(userID), &user); err != nil {
		return nil, err
	}
	
	user.ID = userID
	return &user, nil
}

// RemoveFCMTokens removes the given device tokens from the user's fcm_tokens array.
func (s *FirestoreStore) RemoveFCMTokens(ctx context.Context, userID string, tokens ...string) error {
	if len(tokens) == 0 {
		return nil
	}
	
	values := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		values = append(values, token)
	}
	
	_, err := s.client.Collection(CollectionUsers).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "fcm_tokens", Value: firestore.ArrayRemove(values...)},
	})
	if err != nil {
		return fmt.Errorf("failed to remove fcm tokens of user %s: %w", userID, wrapNotFound(err))
	}
	
	return nil
}
