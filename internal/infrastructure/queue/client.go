package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer là phần của *asynq.Client mà service cần (dễ fake trong test)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Inspector là phần của *asynq.Inspector dùng để huỷ task đã lên lịch
type Inspector interface {
	DeleteTask(queue, id string) error
}

func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db})
}

func NewInspector(redisAddr, password string, db int) *asynq.Inspector {
	return asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db})
}

// EnqueueJSON marshal payload và enqueue task
func EnqueueJSON(ctx context.Context, client Enqueuer, taskType string, payload interface{}, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}

	info, err := client.EnqueueContext(ctx, asynq.NewTask(taskType, b), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	return info, nil
}

// DecodePayload unmarshal payload, lỗi parse không retry được nên bọc SkipRetry
func DecodePayload(task *asynq.Task, dst interface{}) error {
	if err := json.Unmarshal(task.Payload(), dst); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}
