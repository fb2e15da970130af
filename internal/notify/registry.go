package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"launch_notifier/internal/domain"
)

// HandlerSpec is one configured notification handler.
type HandlerSpec struct {
	Service    string
	Renderer   string
	Parameters map[string]any
}

type Options struct {
	// Location is the zone used for local times in rendered messages.
	Location *time.Location
	// Stdout receives stdout notifications; os.Stdout when nil.
	Stdout io.Writer
}

// NewHandlers builds a handler for each spec. At least one spec is required.
// On error, services created so far are closed.
func NewHandlers(ctx context.Context, specs []HandlerSpec, opts Options, logger *slog.Logger) ([]Handler, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: at least one notification handler is required", domain.ErrConfig)
	}

	handlers := make([]Handler, 0, len(specs))
	for i, spec := range specs {
		h, err := newHandler(ctx, spec, opts, logger)
		if err != nil {
			closeAll(handlers)
			return nil, fmt.Errorf("notification handler %d: %w", i, err)
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}

func newHandler(ctx context.Context, spec HandlerSpec, opts Options, logger *slog.Logger) (Handler, error) {
	kind, err := ParseServiceKind(spec.Service)
	if err != nil {
		return Handler{}, err
	}
	rendererKind, err := ParseRendererKind(spec.Renderer)
	if err != nil {
		return Handler{}, err
	}
	renderer, err := NewRenderer(rendererKind, opts.Location)
	if err != nil {
		return Handler{}, err
	}

	svcLogger := logger.With("service", string(kind))
	svc, err := newService(ctx, kind, spec.Parameters, opts, svcLogger)
	if err != nil {
		return Handler{}, err
	}

	logger.Debug("loaded notification handler", "service", kind, "renderer", rendererKind)
	return Handler{Kind: kind, Renderer: renderer, Service: svc}, nil
}

func newService(ctx context.Context, kind ServiceKind, params map[string]any, opts Options, logger *slog.Logger) (Service, error) {
	switch kind {
	case ServiceStdout:
		return NewStdoutService(opts.Stdout, logger), nil
	case ServiceEmail:
		var cfg SMTPConfig
		if err := decodeParams(kind, params, &cfg); err != nil {
			return nil, err
		}
		return NewSMTPService(cfg, logger)
	case ServiceGmail:
		var cfg GmailConfig
		if err := decodeParams(kind, params, &cfg); err != nil {
			return nil, err
		}
		return NewGmailService(ctx, cfg, logger)
	case ServiceRabbitMQ:
		var cfg RabbitMQConfig
		if err := decodeParams(kind, params, &cfg); err != nil {
			return nil, err
		}
		svc, err := NewRabbitMQService(cfg, logger)
		if err != nil {
			return nil, errors.Join(domain.ErrNotification, err)
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("%w: unknown notification service %q", domain.ErrConfig, kind)
	}
}

func closeAll(handlers []Handler) {
	for _, h := range handlers {
		_ = h.Service.Close()
	}
}
