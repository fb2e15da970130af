package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"launch_notifier/internal/domain"
)

// GmailConfig holds the "gmail" handler parameters. TokenFile must hold a
// previously authorized token; no interactive authorization is attempted.
type GmailConfig struct {
	CredentialsFile string     `yaml:"credentials_file" validate:"required"`
	TokenFile       string     `yaml:"token_file" validate:"required"`
	Recipients      Recipients `yaml:"recipients" validate:"required,min=1,dive,required"`
	Endpoint        string     `yaml:"endpoint"`
}

type GmailService struct {
	svc        *gmail.Service
	recipients Recipients
	logger     *slog.Logger
}

// storedToken reads both oauth2.Token files and authorized-user files
// written by Google client libraries.
type storedToken struct {
	AccessToken  string `json:"access_token"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Expiry       string `json:"expiry"`
}

func NewGmailService(ctx context.Context, cfg GmailConfig, logger *slog.Logger) (*GmailService, error) {
	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read gmail credentials: %w", domain.ErrConfig, err)
	}
	oauthCfg, err := google.ConfigFromJSON(credentials, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse gmail credentials: %w", domain.ErrConfig, err)
	}

	token, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{
		option.WithHTTPClient(oauth2.NewClient(ctx, oauthCfg.TokenSource(ctx, token))),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail client: %w", err)
	}

	logger.Info("initialized gmail service", "recipients", len(cfg.Recipients))
	return &GmailService{svc: svc, recipients: cfg.Recipients, logger: logger}, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read gmail token: %w", domain.ErrConfig, err)
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: parse gmail token: %w", domain.ErrConfig, err)
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
	}
	if token.AccessToken == "" {
		token.AccessToken = stored.Token
	}
	if stored.Expiry != "" {
		if expiry, err := time.Parse(time.RFC3339, stored.Expiry); err == nil {
			token.Expiry = expiry
		}
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: gmail token file %s holds no credentials", domain.ErrConfig, path)
	}
	return token, nil
}

func (g *GmailService) Send(ctx context.Context, msg Message) error {
	m, err := buildMail(msg, g.recipients)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode gmail message: %w", err)
	}

	g.logger.Debug("sending gmail message", "subject", msg.Subject)
	raw := base64.URLEncoding.EncodeToString(buf.Bytes())
	if _, err := g.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send gmail message: %w", err)
	}

	g.logger.Info("sent gmail notification", "recipients", len(g.recipients))
	return nil
}

func (g *GmailService) Close() error {
	return nil
}
