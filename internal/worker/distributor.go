package worker

import (
	"context"
	
	"github.com/hibiken/asynq"
)

const (
	TaskSendNotification = "notification:send"
)

/*
This file will contain the codes to create tasks and distributes them to the Redis queue.
*/

type TaskDistributor interface {
	DistributeTaskSendNotification(ctx context.Context, payload *PayloadSendNotification, opts ...asynq.Option) error
	Close() error
}

type RedisTaskDistributor struct {
	client      *asynq.Client  // client sends tasks to redis queue.
	defaultOpts []asynq.Option // applied before the per-call options
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt, defaultOpts ...asynq.Option) TaskDistributor {
	client := asynq.NewClient(redisOpt)
	
	return &RedisTaskDistributor{
		client:      client,
		defaultOpts: defaultOpts,
	}
}

func (distributor *RedisTaskDistributor) options(opts ...asynq.Option) []asynq.Option {
	merged := make([]asynq.Option, 0, len(distributor.defaultOpts)+len(opts))
	merged = append(merged, distributor.defaultOpts...)
	return append(merged, opts...)
}

func (distributor *RedisTaskDistributor) Close() error {
	return distributor.client.Close()
}
