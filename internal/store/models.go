package store

import (
	"github.com/katatrina/mentors-notifier/internal/eligibility"
)

const (
	CollectionUsers      = "users"
	CollectionBoards     = "boards"
	CollectionComments   = "comments"
	CollectionMatches    = "matches"
	CollectionCategories = "categories"
	CollectionChats      = "chats"
	CollectionMessages   = "messages"
)

type User struct {
	ID                   string                `firestore:"-"`
	Nickname             string                `firestore:"user_nickname"`
	FCMTokens            []string              `firestore:"fcm_tokens"`
	NotificationSettings *eligibility.Settings `firestore:"notification_settings"`
}

type Board struct {
	ID       string `firestore:"-"`
	AuthorID string `firestore:"author_id"`
	Title    string `firestore:"title"`
}

type Comment struct {
	ID       string `firestore:"-"`
	BoardID  string `firestore:"-"`
	AuthorID string `firestore:"author_id"`
	Content  string `firestore:"content"`
}

type Match struct {
	ID         string `firestore:"-"`
	MenteeID   string `firestore:"mentee_id"`
	MentorID   string `firestore:"mentor_id"`
	CategoryID string `firestore:"category_id"`
}

type Category struct {
	ID   string `firestore:"-"`
	Name string `firestore:"cate_name"`
}

type Chat struct {
	ID           string   `firestore:"-"`
	Participants []string `firestore:"participants"`
}

// Recipient returns the first participant that is not senderID.
func (c *Chat) Recipient(senderID string) (string, bool) {
	for _, id := range c.Participants {
		if id != "" && id != senderID {
			return id, true
		}
	}
	
	return "", false
}

type ChatMessage struct {
	ID       string `firestore:"-"`
	ChatID   string `firestore:"-"`
	SenderID string `firestore:"sender_id"`
	Content  string `firestore:"content"`
}
