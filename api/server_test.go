package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/katatrina/mentors-notifier/internal/eligibility"
	"github.com/katatrina/mentors-notifier/internal/event"
	"github.com/katatrina/mentors-notifier/internal/store"
	"github.com/katatrina/mentors-notifier/internal/util"
	"github.com/katatrina/mentors-notifier/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventHandler struct {
	events []event.Event
	err    error
}

func (f *fakeEventHandler) HandleEvent(_ context.Context, e event.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

type fakeEvaluator struct {
	decisions map[string]eligibility.Decision
	lastAt    time.Time
}

func (f *fakeEvaluator) Evaluate(_ context.Context, userID string, at time.Time) (eligibility.Decision, error) {
	f.lastAt = at
	decision, ok := f.decisions[userID]
	if !ok {
		return eligibility.Notify, store.ErrRecordNotFound
	}
	return decision, nil
}

type fakeInspector struct {
	tasks   map[string]*worker.NotificationTask
	deleted []string
}

func (f *fakeInspector) GetNotificationTask(_ context.Context, queue, taskID string) (*worker.NotificationTask, error) {
	task, ok := f.tasks[queue+"|"+taskID]
	if !ok {
		return nil, asynq.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeInspector) CancelNotificationTask(_ context.Context, queue, taskID string) error {
	if _, ok := f.tasks[queue+"|"+taskID]; !ok {
		return asynq.ErrTaskNotFound
	}
	f.deleted = append(f.deleted, taskID)
	return nil
}

type testServer struct {
	*Server
	handler   *fakeEventHandler
	evaluator *fakeEvaluator
	inspector *fakeInspector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	
	ts := &testServer{
		handler: &fakeEventHandler{},
		evaluator: &fakeEvaluator{decisions: map[string]eligibility.Decision{
			"awake":    eligibility.Notify,
			"sleeping": eligibility.SuppressedDoNotDisturb,
		}},
		inspector: &fakeInspector{tasks: map[string]*worker.NotificationTask{
			"default|notify:matches/m1:mentee": {
				ID:          "notify:matches/m1:mentee",
				Queue:       "default",
				State:       "pending",
				EventID:     "matches/m1",
				RecipientID: "mentee",
				MaxRetry:    3,
			},
		}},
	}
	
	config := &util.Config{NotificationTimezone: "UTC"}
	server, err := NewServer(config, ts.handler, ts.evaluator, ts.inspector)
	require.NoError(t, err)
	ts.Server = server
	return ts
}

func (ts *testServer) do(t *testing.T, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	
	request, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	
	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, request)
	return recorder
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	
	recorder := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(requestIDHeaderKey))
}

func TestHandleEvent(t *testing.T) {
	ts := newTestServer(t)
	
	recorder := ts.do(t, http.MethodPost, "/v1/events", gin.H{"document": "chats/room/messages/msg1"})
	require.Equal(t, http.StatusAccepted, recorder.Code)
	require.Len(t, ts.handler.events, 1)
	assert.Equal(t, event.EventTypeChatMessageCreated, ts.handler.events[0].Type)
	assert.Equal(t, "chats/room/messages/msg1", ts.handler.events[0].ID)
}

func TestHandleEvent_CustomID(t *testing.T) {
	ts := newTestServer(t)
	
	recorder := ts.do(t, http.MethodPost, "/v1/events", gin.H{
		"id":       "delivery-42",
		"document": "projects/p/databases/(default)/documents/matches/m1",
	})
	require.Equal(t, http.StatusAccepted, recorder.Code)
	require.Len(t, ts.handler.events, 1)
	assert.Equal(t, "delivery-42", ts.handler.events[0].ID)
	assert.Equal(t, "matches/m1", ts.handler.events[0].Document)
}

func TestHandleEvent_BadRequests(t *testing.T) {
	ts := newTestServer(t)
	
	for name, body := range map[string]interface{}{
		"missing document": gin.H{"id": "x"},
		"collection path":  gin.H{"document": "matches"},
		"unknown trigger":  gin.H{"document": "users/u1"},
		"reserved id":      gin.H{"document": "matches/__m__"},
	} {
		t.Run(name, func(t *testing.T) {
			recorder := ts.do(t, http.MethodPost, "/v1/events", body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
	assert.Empty(t, ts.handler.events)
}

func TestHandleEvent_HandlerError(t *testing.T) {
	ts := newTestServer(t)
	ts.handler.err = errors.New("redis down")
	
	recorder := ts.do(t, http.MethodPost, "/v1/events", gin.H{"document": "matches/m1"})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestGetNotificationEligibility(t *testing.T) {
	ts := newTestServer(t)
	
	recorder := ts.do(t, http.MethodGet, "/v1/users/sleeping/notification-eligibility?at=2024-05-01T23:30:00Z", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	
	var resp notificationEligibilityResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "sleeping", resp.UserID)
	assert.Equal(t, "do_not_disturb", resp.Decision)
	assert.False(t, resp.Notify)
	assert.True(t, ts.evaluator.lastAt.Equal(time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)))
	
	recorder = ts.do(t, http.MethodGet, "/v1/users/awake/notification-eligibility", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Notify)
}

func TestGetNotificationEligibility_Errors(t *testing.T) {
	ts := newTestServer(t)
	
	recorder := ts.do(t, http.MethodGet, "/v1/users/ghost/notification-eligibility", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	
	recorder = ts.do(t, http.MethodGet, "/v1/users/awake/notification-eligibility?at=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetTaskInfo(t *testing.T) {
	ts := newTestServer(t)
	
	recorder := ts.do(t, http.MethodGet, "/v1/tasks/default/notify:matches/m1:mentee", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	
	var resp taskInfoResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "notify:matches/m1:mentee", resp.ID)
	assert.Equal(t, "pending", resp.State)
	assert.Equal(t, "mentee", resp.RecipientID)
	assert.Nil(t, resp.NextProcessAt)
	
	recorder = ts.do(t, http.MethodGet, "/v1/tasks/default/unknown", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteTask(t *testing.T) {
	ts := newTestServer(t)
	
	recorder := ts.do(t, http.MethodDelete, "/v1/tasks/default/notify:matches/m1:mentee", nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, []string{"notify:matches/m1:mentee"}, ts.inspector.deleted)
	
	recorder = ts.do(t, http.MethodDelete, "/v1/tasks/default/unknown", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
