package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	
	"github.com/hibiken/asynq"
	"github.com/katatrina/mentors-notifier/internal/notification"
	"github.com/rs/zerolog/log"
)

// PayloadSendNotification contain all data of the task that we want to store in Redis.
type PayloadSendNotification struct {
	Notification notification.Notification `json:"notification"`
}

// TaskID makes enqueuing the same notification twice a no-op.
func (payload *PayloadSendNotification) TaskID() string {
	return fmt.Sprintf("notify:%s:%s", payload.Notification.EventID, payload.Notification.RecipientID)
}

func (distributor *RedisTaskDistributor) DistributeTaskSendNotification(
	ctx context.Context,
	payload *PayloadSendNotification,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	
	taskID := payload.TaskID()
	task := asynq.NewTask(TaskSendNotification, jsonPayload, distributor.options(append(opts, asynq.TaskID(taskID))...)...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			log.Info().Str("task_id", taskID).Msg("task already enqueued, skipping")
			return nil
		}
		
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	
	log.Info().
		Str("type", task.Type()).
		Str("task_id", taskID).
		Str("recipient_id", payload.Notification.RecipientID).
		Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).
		Msg("task enqueued")
	
	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendNotification(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadSendNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}
	
	if payload.Notification.RecipientID == "" {
		return fmt.Errorf("missing recipient id: %w", asynq.SkipRetry)
	}
	
	result, err := processor.deliverer.Deliver(ctx, &payload.Notification)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	
	log.Info().Str("type", task.Type()).
		Str("event_id", payload.Notification.EventID).
		Str("recipient_id", payload.Notification.RecipientID).
		Str("skip_reason", result.SkipReason).
		Int("sent", result.Sent).
		Msg("task processed")
	
	return nil
}
