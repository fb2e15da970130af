package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"launch_notifier/internal/domain"
)

type Source interface {
	ID() string
	Name() string
	FetchUpcoming(ctx context.Context, deadline time.Time) (*domain.LaunchCollection, error)
}

type ChangeFilter interface {
	FilterChanged(ctx context.Context, c *domain.LaunchCollection) *domain.LaunchCollection
}

type Notifier interface {
	Deliver(ctx context.Context, c *domain.LaunchCollection) error
}

type PollStateRecorder interface {
	Record(ctx context.Context, sourceID string, stats *domain.CheckStats) error
}
