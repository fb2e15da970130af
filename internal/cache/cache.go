// Package cache decides which launches are new or materially changed since
// the previous poll and keeps the last fetched listing as the baseline.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"launch_notifier/internal/domain"
)

// Cache filters launch listings against the previously fetched listing.
// It is owned by a single poll loop and is not safe for concurrent use.
type Cache struct {
	store    Store
	enabled  bool
	baseline *domain.LaunchCollection
	logger   *slog.Logger
}

// New creates a cache and loads the persisted baseline. A missing or
// unreadable baseline starts the cache cold instead of failing.
func New(ctx context.Context, store Store, enabled bool, logger *slog.Logger) *Cache {
	c := &Cache{
		store:   store,
		enabled: enabled,
		logger:  logger.With("component", "cache"),
	}
	if enabled {
		c.baseline = c.load(ctx)
	}
	return c
}

// Enabled reports whether the cache filters at all.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// FilterChanged returns the launches in next that are new or significantly
// changed relative to the baseline, then replaces the baseline with next.
func (c *Cache) FilterChanged(ctx context.Context, next *domain.LaunchCollection) *domain.LaunchCollection {
	if !c.enabled {
		return next
	}

	if c.baseline == nil {
		c.logger.Info("no baseline, reporting all launches", "count", len(next.Results))
		c.replaceBaseline(ctx, next)
		return next
	}

	previousByID := make(map[string]domain.Launch, len(c.baseline.Results))
	for _, launch := range c.baseline.Results {
		previousByID[launch.ID] = launch
	}

	changed := &domain.LaunchCollection{
		Next:     next.Next,
		Previous: next.Previous,
		Results:  []domain.Launch{},
	}

	for _, launch := range next.Results {
		prev, seen := previousByID[launch.ID]
		if !seen {
			c.logger.Info("new launch detected", "launch_id", launch.ID, "name", launch.Name)
			changed.Results = append(changed.Results, launch)
			continue
		}

		if field, ok := changedField(prev, launch); ok {
			c.logger.Info("launch changed", "launch_id", launch.ID, "name", launch.Name, "field", field)
			changed.Results = append(changed.Results, launch)
		}
	}
	changed.Count = len(changed.Results)

	c.replaceBaseline(ctx, next)

	return changed
}

func (c *Cache) replaceBaseline(ctx context.Context, next *domain.LaunchCollection) {
	c.baseline = next

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		c.logger.Warn("failed to encode cache", "error", err)
		return
	}
	if err := c.store.Save(ctx, data); err != nil {
		c.logger.Warn("failed to save cache", "error", errors.Join(domain.ErrCacheIO, err))
	}
}

func (c *Cache) load(ctx context.Context) *domain.LaunchCollection {
	data, err := c.store.Load(ctx)
	if errors.Is(err, ErrNoBaseline) {
		return nil
	}
	if err != nil {
		c.logger.Warn("failed to load cache", "error", errors.Join(domain.ErrCacheIO, err))
		return nil
	}

	baseline, err := domain.DecodeCollection(data)
	if err != nil {
		c.logger.Warn("failed to load cache", "error", errors.Join(domain.ErrCacheIO, err))
		return nil
	}
	c.logger.Debug("loaded cache", "launches", len(baseline.Results))
	return baseline
}
