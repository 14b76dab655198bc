package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDocument = errors.New("document does not match any trigger")

// Event represents the creation of a document that may produce notifications.
type Event struct {
	ID       string            // Unique id of the delivery, defaults to the document path
	Type     string            // One of the EventType constants
	Document string            // Relative document path, e.g. "matches/abc"
	Params   map[string]string // Wildcards captured from the document path
}

const (
	EventTypeCommentCreated     = "comment.created"      // boards/{board_id}/comments/{comment_id}
	EventTypeMatchCreated       = "match.created"        // matches/{match_id}
	EventTypeChatMessageCreated = "chat_message.created" // chats/{chat_id}/messages/{message_id}
)

// Handler handles a document creation event.
type Handler interface {
	HandleEvent(ctx context.Context, event Event) error
}

type route struct {
	eventType string
	segments  []string
}

var routes = []route{
	{EventTypeCommentCreated, strings.Split("boards/{board_id}/comments/{comment_id}", "/")},
	{EventTypeMatchCreated, strings.Split("matches/{match_id}", "/")},
	{EventTypeChatMessageCreated, strings.Split("chats/{chat_id}/messages/{message_id}", "/")},
}

// Parse matches a document path against the known triggers.
// Relative paths, Eventarc subjects ("documents/...") and fully qualified
// resource names ("projects/p/databases/(default)/documents/...") are accepted.
func Parse(document string) (Event, error) {
	path := RelativePath(document)
	segments := strings.Split(path, "/")
	
	for _, r := range routes {
		params, ok := r.match(segments)
		if !ok {
			continue
		}
		
		return Event{
			ID:       path,
			Type:     r.eventType,
			Document: path,
			Params:   params,
		}, nil
	}
	
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownDocument, document)
}

func (r route) match(segments []string) (map[string]string, bool) {
	if len(segments) != len(r.segments) {
		return nil, false
	}
	
	params := make(map[string]string)
	for i, pattern := range r.segments {
		segment := segments[i]
		if segment == "" {
			return nil, false
		}
		
		if strings.HasPrefix(pattern, "{") && strings.HasSuffix(pattern, "}") {
			params[pattern[1:len(pattern)-1]] = segment
			continue
		}
		
		if pattern != segment {
			return nil, false
		}
	}
	
	return params, true
}

// RelativePath strips a leading "projects/{p}/databases/{d}/documents/" or
// "documents/" prefix from a document name.
func RelativePath(document string) string {
	segments := strings.Split(strings.Trim(document, "/"), "/")
	
	switch {
	case len(segments) > 5 && segments[0] == "projects" && segments[2] == "databases" && segments[4] == "documents":
		segments = segments[5:]
	case len(segments) > 1 && segments[0] == "documents":
		segments = segments[1:]
	}
	
	return strings.Join(segments, "/")
}
