package notification

import (
	"encoding/json"
)

const (
	ScreenBoardDetail = "BoardDetailScreen"
	ScreenMatchDetail = "MatchDetailScreen"
	ScreenChatRoom    = "ChatRoomScreen"
)

// Action tells the app which screen to open when the notification is tapped.
type Action struct {
	Screen string            `json:"screen"`
	Params map[string]string `json:"params"`
}

func (a Action) Encode() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	
	return string(data), nil
}

type Notification struct {
	EventID     string `json:"event_id"`
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Action      Action `json:"action"`
}
