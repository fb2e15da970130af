package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"launch_notifier/internal/domain"
)

const smtpConnectTimeout = 30 * time.Second

// SMTPConfig holds the "email" handler parameters. Password is base64 encoded.
type SMTPConfig struct {
	Server        string     `yaml:"smtp_server" validate:"required"`
	Port          int        `yaml:"smtp_port" validate:"required,min=1,max=65535"`
	UseTLS        bool       `yaml:"use_tls"`
	LocalHostname string     `yaml:"local_hostname"`
	Username      string     `yaml:"smtp_username"`
	Password      string     `yaml:"smtp_password" validate:"required_with=Username"`
	Sender        string     `yaml:"sender" validate:"required"`
	Recipients    Recipients `yaml:"recipients" validate:"required,min=1,dive,required"`
}

type SMTPService struct {
	cfg      SMTPConfig
	password string
	logger   *slog.Logger
}

func NewSMTPService(cfg SMTPConfig, logger *slog.Logger) (*SMTPService, error) {
	var password string
	if cfg.Username != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: smtp_password is not valid base64", domain.ErrConfig)
		}
		password = string(decoded)
	}

	logger.Info("initialized email service",
		"smtp_server", cfg.Server,
		"smtp_port", cfg.Port,
		"use_tls", cfg.UseTLS,
	)

	return &SMTPService{cfg: cfg, password: password, logger: logger}, nil
}

func (s *SMTPService) Send(ctx context.Context, msg Message) error {
	m, err := s.compose(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Server, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	s.logger.Debug("sending email", "subject", msg.Subject, "recipients", []string(s.cfg.Recipients))
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("sent email notification", "recipients", len(s.cfg.Recipients))
	return nil
}

func (s *SMTPService) Close() error {
	return nil
}

func (s *SMTPService) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(smtpConnectTimeout),
	}
	if s.cfg.UseTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if s.cfg.LocalHostname != "" {
		opts = append(opts, mail.WithHELO(s.cfg.LocalHostname))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.password),
		)
	}
	return opts
}

func (s *SMTPService) compose(msg Message) (*mail.Msg, error) {
	m, err := buildMail(msg, s.cfg.Recipients)
	if err != nil {
		return nil, err
	}
	if err := m.From(s.cfg.Sender); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	return m, nil
}

// buildMail creates a plain text message, or multipart/alternative when
// msg has an HTML body.
func buildMail(msg Message, recipients Recipients) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.To(recipients...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
