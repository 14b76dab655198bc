package trigger

import (
	"context"
	"errors"
	"testing"
	
	"github.com/hibiken/asynq"
	"github.com/katatrina/mentors-notifier/internal/event"
	"github.com/katatrina/mentors-notifier/internal/notification"
	"github.com/katatrina/mentors-notifier/internal/store"
	"github.com/katatrina/mentors-notifier/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users      map[string]*store.User
	boards     map[string]*store.Board
	comments   map[string]*store.Comment
	matches    map[string]*store.Match
	categories map[string]*store.Category
	chats      map[string]*store.Chat
	messages   map[string]*store.ChatMessage
	err        error
}

func find[T any](f *fakeStore, m map[string]*T, key string) (*T, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := m[key]; ok {
		return v, nil
	}
	return nil, store.ErrRecordNotFound
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*store.User, error) {
	return find(f, f.users, id)
}

func (f *fakeStore) GetBoard(_ context.Context, id string) (*store.Board, error) {
	return find(f, f.boards, id)
}

func (f *fakeStore) GetComment(_ context.Context, boardID, commentID string) (*store.Comment, error) {
	return find(f, f.comments, boardID+"/"+commentID)
}

func (f *fakeStore) GetMatch(_ context.Context, id string) (*store.Match, error) {
	return find(f, f.matches, id)
}

func (f *fakeStore) GetCategory(_ context.Context, id string) (*store.Category, error) {
	return find(f, f.categories, id)
}

func (f *fakeStore) GetChat(_ context.Context, id string) (*store.Chat, error) {
	return find(f, f.chats, id)
}

func (f *fakeStore) GetChatMessage(_ context.Context, chatID, messageID string) (*store.ChatMessage, error) {
	return find(f, f.messages, chatID+"/"+messageID)
}

type fakeDistributor struct {
	payloads []*worker.PayloadSendNotification
	queues   []string
	err      error
}

func (f *fakeDistributor) DistributeTaskSendNotification(_ context.Context, payload *worker.PayloadSendNotification, opts ...asynq.Option) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	for _, opt := range opts {
		if opt.Type() == asynq.QueueOpt {
			f.queues = append(f.queues, opt.Value().(string))
		}
	}
	return nil
}

func (f *fakeDistributor) Close() error {
	return nil
}

type fakeGuard struct {
	claimed map[string]bool
}

func (f *fakeGuard) Claim(_ context.Context, key string) (bool, error) {
	if f.claimed == nil {
		f.claimed = make(map[string]bool)
	}
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

func (f *fakeGuard) Release(_ context.Context, key string) error {
	delete(f.claimed, key)
	return nil
}

func newFixture() *fakeStore {
	return &fakeStore{
		users: map[string]*store.User{
			"alice": {ID: "alice", Nickname: "앨리스"},
		},
		boards: map[string]*store.Board{
			"b1": {ID: "b1", AuthorID: "owner", Title: "질문 있어요"},
			"b2": {ID: "b2"},
		},
		comments: map[string]*store.Comment{
			"b1/c1": {ID: "c1", BoardID: "b1", AuthorID: "alice", Content: "답변입니다"},
			"b1/c2": {ID: "c2", BoardID: "b1", AuthorID: "alice"},
			"b2/c1": {ID: "c1", BoardID: "b2", AuthorID: "alice", Content: "hi"},
			"b9/c1": {ID: "c1", BoardID: "b9", AuthorID: "alice", Content: "orphan"},
		},
		matches: map[string]*store.Match{
			"m1": {ID: "m1", MenteeID: "mentee", MentorID: "mentor", CategoryID: "go"},
			"m2": {ID: "m2", MenteeID: "mentee", MentorID: "mentor", CategoryID: "deleted"},
			"m3": {ID: "m3", MenteeID: "mentee"},
		},
		categories: map[string]*store.Category{
			"go": {ID: "go", Name: "Go 언어"},
		},
		chats: map[string]*store.Chat{
			"room": {ID: "room", Participants: []string{"alice", "bob"}},
			"solo": {ID: "solo", Participants: []string{"alice"}},
		},
		messages: map[string]*store.ChatMessage{
			"room/msg1": {ID: "msg1", ChatID: "room", SenderID: "alice", Content: "안녕"},
			"room/msg2": {ID: "msg2", ChatID: "room", SenderID: "ghost", Content: "boo"},
			"solo/msg1": {ID: "msg1", ChatID: "solo", SenderID: "alice", Content: "echo"},
			"room/msg3": {ID: "msg3", ChatID: "room", SenderID: "alice"},
		},
	}
}

func mustParse(t *testing.T, document string) event.Event {
	t.Helper()
	e, err := event.Parse(document)
	require.NoError(t, err)
	return e
}

func recipients(payloads []*worker.PayloadSendNotification) []string {
	ids := make([]string, 0, len(payloads))
	for _, p := range payloads {
		ids = append(ids, p.Notification.RecipientID)
	}
	return ids
}

func TestHandleEvent_Comment(t *testing.T) {
	distributor := &fakeDistributor{}
	handler := NewHandler(newFixture(), distributor, &fakeGuard{})
	
	err := handler.HandleEvent(context.Background(), mustParse(t, "boards/b1/comments/c1"))
	require.NoError(t, err)
	require.Len(t, distributor.payloads, 1)
	
	n := distributor.payloads[0].Notification
	assert.Equal(t, "owner", n.RecipientID)
	assert.Equal(t, "boards/b1/comments/c1", n.EventID)
	assert.Equal(t, "답변입니다", n.Body)
	assert.Equal(t, notification.ScreenBoardDetail, n.Action.Screen)
	assert.Equal(t, []string{worker.QueueDefault}, distributor.queues)
}

func TestHandleEvent_Match(t *testing.T) {
	distributor := &fakeDistributor{}
	handler := NewHandler(newFixture(), distributor, &fakeGuard{})
	
	require.NoError(t, handler.HandleEvent(context.Background(), mustParse(t, "matches/m1")))
	assert.Equal(t, []string{"mentee", "mentor"}, recipients(distributor.payloads))
	assert.Equal(t, "Go 언어", distributor.payloads[0].Notification.Action.Params["category_name"])
	assert.Equal(t, []string{worker.QueueCritical, worker.QueueCritical}, distributor.queues)
}

func TestHandleEvent_MatchWithMissingCategory(t *testing.T) {
	distributor := &fakeDistributor{}
	handler := NewHandler(newFixture(), distributor, &fakeGuard{})
	
	require.NoError(t, handler.HandleEvent(context.Background(), mustParse(t, "matches/m2")))
	require.Len(t, distributor.payloads, 2)
	assert.Equal(t, "알 수 없는 카테고리", distributor.payloads[1].Notification.Action.Params["category_name"])
}

func TestHandleEvent_ChatMessage(t *testing.T) {
	distributor := &fakeDistributor{}
	handler := NewHandler(newFixture(), distributor, &fakeGuard{})
	
	require.NoError(t, handler.HandleEvent(context.Background(), mustParse(t, "chats/room/messages/msg1")))
	require.Len(t, distributor.payloads, 1)
	
	n := distributor.payloads[0].Notification
	assert.Equal(t, "bob", n.RecipientID)
	assert.Equal(t, "앨리스님의 메시지", n.Title)
	assert.Equal(t, "room", n.Action.Params["chat_room_id"])
	assert.Equal(t, []string{worker.QueueDefault}, distributor.queues)
}

func TestHandleEvent_ChatMessageFromUnknownSender(t *testing.T) {
	distributor := &fakeDistributor{}
	handler := NewHandler(newFixture(), distributor, &fakeGuard{})
	
	require.NoError(t, handler.HandleEvent(context.Background(), mustParse(t, "chats/room/messages/msg2")))
	require.Len(t, distributor.payloads, 1)
	assert.Equal(t, "alice", distributor.payloads[0].Notification.RecipientID)
	assert.Equal(t, "익명님의 메시지", distributor.payloads[0].Notification.Title)
}

func TestHandleEvent_SkippedDocuments(t *testing.T) {
	documents := []string{
		"boards/b1/comments/c2",      // no content
		"boards/b1/comments/missing", // comment not found
		"boards/b2/comments/c1",      // board without owner
		"boards/b9/comments/c1",      // board not found
		"matches/m3",                 // incomplete match
		"matches/missing",            // match not found
		"chats/solo/messages/msg1",   // no other participant
		"chats/room/messages/msg3",   // no content
		"chats/gone/messages/msg1",   // message not found
	}
	
	for _, document := range documents {
		t.Run(document, func(t *testing.T) {
			distributor := &fakeDistributor{}
			guard := &fakeGuard{}
			handler := NewHandler(newFixture(), distributor, guard)
			
			err := handler.HandleEvent(context.Background(), mustParse(t, document))
			assert.NoError(t, err)
			assert.Empty(t, distributor.payloads)
			assert.True(t, guard.claimed[document])
		})
	}
}

func TestHandleEvent_Duplicate(t *testing.T) {
	distributor := &fakeDistributor{}
	handler := NewHandler(newFixture(), distributor, &fakeGuard{})
	e := mustParse(t, "matches/m1")
	
	require.NoError(t, handler.HandleEvent(context.Background(), e))
	require.NoError(t, handler.HandleEvent(context.Background(), e))
	assert.Len(t, distributor.payloads, 2)
}

func TestHandleEvent_TransientFailureReleasesClaim(t *testing.T) {
	fixture := newFixture()
	fixture.err = errors.New("firestore unavailable")
	guard := &fakeGuard{}
	handler := NewHandler(fixture, &fakeDistributor{}, guard)
	
	err := handler.HandleEvent(context.Background(), mustParse(t, "matches/m1"))
	assert.Error(t, err)
	assert.False(t, guard.claimed["matches/m1"])
	
	fixture.err = nil
	distributor := &fakeDistributor{}
	handler = NewHandler(fixture, distributor, guard)
	require.NoError(t, handler.HandleEvent(context.Background(), mustParse(t, "matches/m1")))
	assert.Len(t, distributor.payloads, 2)
}

func TestHandleEvent_EnqueueFailure(t *testing.T) {
	enqueueErr := errors.New("redis down")
	guard := &fakeGuard{}
	handler := NewHandler(newFixture(), &fakeDistributor{err: enqueueErr}, guard)
	
	err := handler.HandleEvent(context.Background(), mustParse(t, "boards/b1/comments/c1"))
	assert.ErrorIs(t, err, enqueueErr)
	assert.False(t, guard.claimed["boards/b1/comments/c1"])
}

func TestGuardKey(t *testing.T) {
	assert.Equal(t, "trigger:handled:matches/m1", guardKey("matches/m1"))
}
