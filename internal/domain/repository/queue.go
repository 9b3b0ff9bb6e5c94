package repository

import (
	"context"

	"github.com/google/uuid"
)

// WarmTask asks a worker to pre-populate the catalog cache for one season.
type WarmTask struct {
	ID         uuid.UUID `json:"id"`
	ShowID     int       `json:"show_id"`
	Season     int       `json:"season"`
	RetryCount int       `json:"retry_count"`
}

// WarmPublisher sends warm tasks.
// Used by the web server after a show page renders.
type WarmPublisher interface {
	PublishWarmTask(ctx context.Context, task WarmTask) error
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	WarmPublisher

	// ConsumeWarmTasks starts consuming warm tasks from the queue.
	// The handler function is called for each received task.
	// Blocks until ctx is cancelled or the delivery channel closes.
	// Used by the worker service.
	ConsumeWarmTasks(ctx context.Context, handler func(task WarmTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
