package notification

import (
	"fmt"
	
	"github.com/katatrina/mentors-notifier/internal/store"
)

const (
	defaultBoardTitle    = "제목 없음"
	defaultBoardAuthor   = "작성자 없음"
	defaultCategoryName  = "알 수 없는 카테고리"
	defaultNickname      = "익명"
	RoleMentor           = "멘토"
	RoleMentee           = "멘티"
	titleNewComment      = "새로운 댓글이 달렸습니다!"
	titleMatchSuccess    = "멘토링 매칭 성공!"
	titleChatMessageTmpl = "%s님의 메시지"
)

// NewCommentNotification notifies the board owner about a new comment.
func NewCommentNotification(board *store.Board, comment *store.Comment) *Notification {
	title := board.Title
	if title == "" {
		title = defaultBoardTitle
	}
	
	author := board.AuthorID
	if author == "" {
		author = defaultBoardAuthor
	}
	
	return &Notification{
		RecipientID: board.AuthorID,
		Title:       titleNewComment,
		Body:        comment.Content,
		Action: Action{
			Screen: ScreenBoardDetail,
			Params: map[string]string{
				"board_id":   board.ID,
				"title":      title,
				"author_uid": author,
			},
		},
	}
}

// NewMatchNotification notifies recipientID that they were matched with otherUserID.
func NewMatchNotification(recipientID, otherUserID, categoryName, otherUserRole, recipientRole string) *Notification {
	if categoryName == "" {
		categoryName = defaultCategoryName
	}
	
	return &Notification{
		RecipientID: recipientID,
		Title:       titleMatchSuccess,
		Body:        fmt.Sprintf("%s 카테고리에서 %s 매칭되었습니다.", categoryName, otherUserRole),
		Action: Action{
			Screen: ScreenMatchDetail,
			Params: map[string]string{
				"user_id":       otherUserID,
				"category_name": categoryName,
				"role":          recipientRole,
			},
		},
	}
}

// NewMatchNotifications returns the mentee notification followed by the mentor notification.
func NewMatchNotifications(match *store.Match, categoryName string) []*Notification {
	return []*Notification{
		NewMatchNotification(match.MenteeID, match.MentorID, categoryName, RoleMentor, RoleMentee),
		NewMatchNotification(match.MentorID, match.MenteeID, categoryName, RoleMentee, RoleMentor),
	}
}

func NewChatMessageNotification(recipientID, senderNickname string, message *store.ChatMessage) *Notification {
	if senderNickname == "" {
		senderNickname = defaultNickname
	}
	
	return &Notification{
		RecipientID: recipientID,
		Title:       fmt.Sprintf(titleChatMessageTmpl, senderNickname),
		Body:        message.Content,
		Action: Action{
			Screen: ScreenChatRoom,
			Params: map[string]string{
				"chat_room_id": message.ChatID,
			},
		},
	}
}
