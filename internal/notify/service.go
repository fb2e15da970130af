package notify

import (
	"context"
	"fmt"
	"strings"

	"launch_notifier/internal/domain"
)

type ServiceKind string

const (
	ServiceStdout   ServiceKind = "stdout"
	ServiceEmail    ServiceKind = "email"
	ServiceGmail    ServiceKind = "gmail"
	ServiceRabbitMQ ServiceKind = "rabbitmq"
)

func ParseServiceKind(s string) (ServiceKind, error) {
	switch kind := ServiceKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case ServiceStdout, ServiceEmail, ServiceGmail, ServiceRabbitMQ:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown notification service %q", domain.ErrConfig, s)
	}
}

// Service delivers a rendered message over one channel.
type Service interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}
