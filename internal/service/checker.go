package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"launch_notifier/internal/domain"
	"launch_notifier/internal/metrics"
	"launch_notifier/internal/source/ll2"
)

type CheckerConfig struct {
	WindowHours int
}

// Checker runs one check cycle: fetch, filter, notify, record.
type Checker struct {
	source   Source
	filter   ChangeFilter
	notifier Notifier
	recorder PollStateRecorder
	logger   *slog.Logger
	config   CheckerConfig
	now      func() time.Time
}

// NewChecker wires a check cycle. filter and recorder may be nil.
func NewChecker(
	source Source,
	filter ChangeFilter,
	notifier Notifier,
	recorder PollStateRecorder,
	logger *slog.Logger,
	cfg CheckerConfig,
) (*Checker, error) {
	if _, err := ll2.Deadline(time.Now(), cfg.WindowHours); err != nil {
		return nil, err
	}
	if notifier == nil {
		return nil, fmt.Errorf("%w: notifier is required", domain.ErrConfig)
	}
	return &Checker{
		source:   source,
		filter:   filter,
		notifier: notifier,
		recorder: recorder,
		logger:   logger.With("source", source.ID()),
		config:   cfg,
		now:      time.Now,
	}, nil
}

func (c *Checker) Check(ctx context.Context) (*domain.CheckStats, error) {
	start := c.now()
	stats := &domain.CheckStats{
		CycleID:   uuid.NewString(),
		CheckedAt: start.UTC(),
	}
	logger := c.logger.With("cycle_id", stats.CycleID)

	deadline, err := ll2.Deadline(start, c.config.WindowHours)
	if err != nil {
		return nil, err
	}
	stats.Deadline = deadline

	logger.Info("checking for launches",
		"source_name", c.source.Name(),
		"window_hours", c.config.WindowHours,
		"deadline", deadline.Format(domain.WireTimeFormat),
	)

	launches, err := c.source.FetchUpcoming(ctx, deadline)
	if err != nil {
		stats.Duration = c.now().Sub(start)
		metrics.ObserveCycle(metrics.ResultFetchFailed, 0, 0, stats.Duration, stats.CheckedAt)
		return nil, err
	}
	stats.Fetched = len(launches.Results)
	logger.Debug("fetched launches", "count", launches.Count, "results", stats.Fetched)

	if c.filter != nil {
		launches = c.filter.FilterChanged(ctx, launches)
	}
	stats.Changed = launches.Count
	for _, l := range launches.Results {
		stats.ChangedIDs = append(stats.ChangedIDs, l.ID)
	}

	if launches.Count > 0 {
		logger.Info("new or changed launches", "count", launches.Count)
		stats.Notified = true
		if err := c.notifier.Deliver(ctx, launches); err != nil {
			stats.Errors = countErrors(err)
			logger.Error("notification delivery failed", "error", err, "failures", stats.Errors)
		}
	} else {
		logger.Info("no new or changed launches")
	}

	stats.Duration = c.now().Sub(start)
	metrics.ObserveCycle(metrics.ResultOK, stats.Fetched, stats.Changed, stats.Duration, stats.CheckedAt)

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, c.source.ID(), stats); err != nil {
			logger.Warn("failed to record poll state", "error", err)
		}
	}

	logger.Info("check completed",
		"fetched", stats.Fetched,
		"changed", stats.Changed,
		"notified", stats.Notified,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

func countErrors(err error) int {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return len(joined.Unwrap())
	}
	return 1
}
