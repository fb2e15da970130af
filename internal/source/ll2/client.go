package ll2

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"launch_notifier/internal/domain"
)

const (
	SourceID   = "ll2"
	SourceName = "Launch Library 2"

	ProdBaseURL = "https://ll.thespacedevs.com/2.2.0/"
	DevBaseURL  = "https://lldev.thespacedevs.com/2.2.0/"

	upcomingEndpoint = "launch/upcoming/"
	defaultTimeout   = 30 * time.Second
	userAgent        = "LaunchNotifier/1.0"
)

// Environment selects which Launch Library deployment is queried.
type Environment string

const (
	EnvProd Environment = "prod"
	EnvDev  Environment = "dev"
)

// BaseURL returns the API root for the environment.
func (e Environment) BaseURL() (string, error) {
	switch e {
	case EnvProd, "":
		return ProdBaseURL, nil
	case EnvDev:
		return DevBaseURL, nil
	default:
		return "", fmt.Errorf("%w: unknown ll2 environment %q", domain.ErrConfig, string(e))
	}
}

// Config holds Launch Library client configuration.
type Config struct {
	Env      Environment
	BaseURL  string // overrides Env when set
	Timeout  time.Duration
	Detailed bool
}

// Client implements service.Source for the Launch Library 2 API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	detailed   bool
	logger     *slog.Logger
}

// New creates a new Launch Library client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		var err error
		if raw, err = cfg.Env.BaseURL(); err != nil {
			return nil, err
		}
	}

	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse ll2 base url %q: %v", domain.ErrConfig, raw, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		detailed:   cfg.Detailed,
		logger:     logger.With("source", SourceID),
	}, nil
}

// ID returns the source identifier.
func (c *Client) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (c *Client) Name() string {
	return SourceName
}

// Deadline returns the instant windowHours after now, in UTC.
func Deadline(now time.Time, windowHours int) (time.Time, error) {
	if windowHours <= 0 {
		return time.Time{}, fmt.Errorf("%w: window_hours must be a positive int", domain.ErrInvalidArgument)
	}
	return now.UTC().Add(time.Duration(windowHours) * time.Hour), nil
}

// FetchUpcoming returns upcoming launches whose window starts before deadline.
// Every failure is reported as a *domain.FetchError.
func (c *Client) FetchUpcoming(ctx context.Context, deadline time.Time) (*domain.LaunchCollection, error) {
	params := url.Values{}
	params.Set("window_start__lt", deadline.UTC().Format(domain.WireTimeFormat))
	params.Set("hide_recent_previous", "true")
	if c.detailed {
		params.Set("mode", "detailed")
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: upcomingEndpoint, RawQuery: params.Encode()})

	c.logger.Info("requesting upcoming launches",
		"endpoint", upcomingEndpoint,
		"window_start__lt", params.Get("window_start__lt"),
	)

	body, err := c.doRequest(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	launches, err := domain.DecodeCollection(body)
	if err != nil {
		return nil, &domain.FetchError{Cause: "unexpected response", Err: err}
	}

	c.logger.Info("upcoming launches", "count", launches.Count)
	return launches, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Cause: "create request", Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Cause: "execute request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Info("launch library response", "status", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &domain.FetchError{Cause: fmt.Sprintf("unexpected status: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{Cause: "read response", Err: err}
	}
	return body, nil
}
