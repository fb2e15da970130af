package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConfig holds the "rabbitmq" handler parameters.
type RabbitMQConfig struct {
	URL        string `yaml:"url" validate:"required"`
	Exchange   string `yaml:"exchange" validate:"required"`
	RoutingKey string `yaml:"routing_key" validate:"required"`
	QueueName  string `yaml:"queue_name"`
}

// RabbitMQService publishes notifications as JSON to a durable direct exchange.
type RabbitMQService struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

func NewRabbitMQService(cfg RabbitMQConfig, logger *slog.Logger) (*RabbitMQService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if cfg.QueueName != "" {
		q, err := ch.QueueDeclare(
			cfg.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("declare queue: %w", err)
		}

		if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("bind queue: %w", err)
		}
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQService{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

type NotificationMessage struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	HTML      string    `json:"html,omitempty"`
	Count     int       `json:"count"`
	LaunchIDs []string  `json:"launch_ids"`
	Timestamp time.Time `json:"timestamp"`
}

func newNotificationMessage(msg Message, now time.Time) NotificationMessage {
	out := NotificationMessage{
		ID:        uuid.NewString(),
		Subject:   msg.Subject,
		Text:      msg.Text,
		HTML:      msg.HTML,
		LaunchIDs: []string{},
		Timestamp: now.UTC(),
	}
	if msg.Launches != nil {
		out.Count = msg.Launches.Count
		for _, l := range msg.Launches.Results {
			out.LaunchIDs = append(out.LaunchIDs, l.ID)
		}
	}
	return out
}

func (r *RabbitMQService) Send(ctx context.Context, msg Message) error {
	notification := newNotificationMessage(msg, time.Now())

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    notification.ID,
			Body:         body,
			Timestamp:    notification.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published notification",
		"message_id", notification.ID,
		"count", notification.Count,
	)

	return nil
}

func (r *RabbitMQService) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
