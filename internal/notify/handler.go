package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"launch_notifier/internal/domain"
	"launch_notifier/internal/metrics"
)

type MessageRenderer interface {
	Render(c *domain.LaunchCollection) (Message, error)
}

// Handler pairs a renderer with a delivery service.
type Handler struct {
	Kind     ServiceKind
	Renderer MessageRenderer
	Service  Service
}

func (h Handler) Send(ctx context.Context, c *domain.LaunchCollection) error {
	msg, err := h.Renderer.Render(c)
	if err != nil {
		return err
	}
	return h.Service.Send(ctx, msg)
}

// Dispatcher sends every notification through all configured handlers.
type Dispatcher struct {
	handlers []Handler
	logger   *slog.Logger
}

func NewDispatcher(handlers []Handler, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: handlers,
		logger:   logger.With("component", "notify"),
	}
}

// Deliver runs each handler in order. A failing handler does not stop the
// others; all failures are returned joined.
func (d *Dispatcher) Deliver(ctx context.Context, c *domain.LaunchCollection) error {
	d.logger.Info("sending notifications", "count", c.Count, "handlers", len(d.handlers))

	var errs []error
	for _, h := range d.handlers {
		err := h.Send(ctx, c)
		metrics.ObserveNotification(string(h.Kind), err)
		if err != nil {
			err = fmt.Errorf("%w: %s handler: %w", domain.ErrNotification, h.Kind, err)
			d.logger.Error("notification failed", "service", h.Kind, "error", err)
			errs = append(errs, err)
			continue
		}
		d.logger.Debug("notification sent", "service", h.Kind)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) Close() error {
	var errs []error
	for _, h := range d.handlers {
		if err := h.Service.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s service: %w", h.Kind, err))
		}
	}
	return errors.Join(errs...)
}
