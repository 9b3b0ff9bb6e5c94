package queue

import (
	"context"

	"github.com/hszk-dev/nextup/internal/domain/repository"
)

// NoopPublisher discards warm tasks. Used when cache warming is disabled.
type NoopPublisher struct{}

var _ repository.WarmPublisher = NoopPublisher{}

func (NoopPublisher) PublishWarmTask(context.Context, repository.WarmTask) error {
	return nil
}
