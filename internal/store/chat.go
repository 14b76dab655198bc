package store

import (
	"context"
)

func (s *FirestoreStore) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	if err := getDocument(ctx, s.client.Collection(CollectionChats).Doc(chatID), &chat); err != nil {
		return nil, err
	}
	
	chat.ID = chatID
	return &chat, nil
}

func (s *FirestoreStore) GetChatMessage(ctx context.Context, chatID, messageID string) (*ChatMessage, error) {
	ref := s.client.Collection(CollectionChats).Doc(chatID).Collection(CollectionMessages).Doc(messageID)
	
	var message ChatMessage
	if err := getDocument(ctx, ref, &message); err != nil {
		return nil, err
	}
	
	message.ID = messageID
	message.ChatID = chatID
	return &message, nil
}
