package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	
	"github.com/hibiken/asynq"
)

// NotificationTask is the queue state of one send-notification task.
type NotificationTask struct {
	ID            string
	Queue         string
	State         string
	EventID       string
	RecipientID   string
	MaxRetry      int
	Retried       int
	LastErr       string
	NextProcessAt time.Time
}

type TaskInspector interface {
	GetNotificationTask(ctx context.Context, queue, taskID string) (*NotificationTask, error)
	CancelNotificationTask(ctx context.Context, queue, taskID string) error
}

type RedisTaskInspector struct {
	inspector *asynq.Inspector
}

func NewTaskInspector(redisOpt asynq.RedisClientOpt) TaskInspector {
	return &RedisTaskInspector{
		inspector: asynq.NewInspector(redisOpt),
	}
}

// asynq.Inspector takes no context, so cancellation is only honoured before the call.
func (i *RedisTaskInspector) GetNotificationTask(ctx context.Context, queue, taskID string) (*NotificationTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	
	info, err := i.inspector.GetTaskInfo(queue, taskID)
	if err != nil {
		return nil, err
	}
	
	return newNotificationTask(info)
}

func (i *RedisTaskInspector) CancelNotificationTask(ctx context.Context, queue, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	
	return i.inspector.DeleteTask(queue, taskID)
}

func newNotificationTask(info *asynq.TaskInfo) (*NotificationTask, error) {
	if info.Type != TaskSendNotification {
		return nil, fmt.Errorf("%w: %s is a %s task", asynq.ErrTaskNotFound, info.ID, info.Type)
	}
	
	task := &NotificationTask{
		ID:            info.ID,
		Queue:         info.Queue,
		State:         info.State.String(),
		MaxRetry:      info.MaxRetry,
		Retried:       info.Retried,
		LastErr:       info.LastErr,
		NextProcessAt: info.NextProcessAt,
	}
	
	var payload PayloadSendNotification
	if err := json.Unmarshal(info.Payload, &payload); err == nil {
		task.EventID = payload.Notification.EventID
		task.RecipientID = payload.Notification.RecipientID
	}
	
	return task, nil
}
