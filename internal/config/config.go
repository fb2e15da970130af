package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"launch_notifier/internal/domain"
)

const (
	DefaultPath              = "config.json"
	DefaultSearchWindowHours = 48
	DefaultSearchRepeatHours = 24
	DefaultTimeZone          = "America/Chicago"
	DefaultCacheDirectory    = "./.launches_cache"
	DefaultCacheBackend      = "file"
	DefaultEnvironment       = "prod"
	DefaultRequestTimeout    = 30 * time.Second
)

// DefaultDailyCheckTimes are the "HH:MM" times used when none are configured.
var DefaultDailyCheckTimes = []string{"07:00", "19:00"}

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	SearchWindowHours    int                         `yaml:"search_window_hours" toml:"search_window_hours" validate:"gt=0"`
	SearchRepeatHours    int                         `yaml:"search_repeat_hours" toml:"search_repeat_hours" validate:"gt=0"`
	DailyCheckTimes      []string                    `yaml:"daily_check_times" toml:"daily_check_times" validate:"min=1,dive,datetime=15:04"`
	TimeZone             string                      `yaml:"time_zone" toml:"time_zone" validate:"required,timezone"`
	CacheEnabled         bool                        `yaml:"cache_enabled" toml:"cache_enabled"`
	CacheDirectory       string                      `yaml:"cache_directory" toml:"cache_directory" validate:"required"`
	CacheBackend         string                      `yaml:"cache_backend" toml:"cache_backend" validate:"oneof=file bolt postgres"`
	Periodic             bool                        `yaml:"periodic" toml:"periodic"`
	Environment          string                      `yaml:"environment" toml:"environment" validate:"oneof=prod dev"`
	Detailed             bool                        `yaml:"detailed" toml:"detailed"`
	RequestTimeout       Duration                    `yaml:"request_timeout" toml:"request_timeout" validate:"gte=0"`
	LogLevel             string                      `yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFile              string                      `yaml:"log_file" toml:"log_file"`
	MetricsAddress       string                      `yaml:"metrics_address" toml:"metrics_address" validate:"omitempty,hostname_port"`
	Database             DatabaseConfig              `yaml:"database" toml:"database"`
	NotificationHandlers []NotificationHandlerConfig `yaml:"notification_handlers" toml:"notification_handlers" validate:"min=1,dive"`
}

type NotificationHandlerConfig struct {
	Service    string         `yaml:"service" toml:"service" validate:"required"`
	Renderer   string         `yaml:"renderer" toml:"renderer"`
	Parameters map[string]any `yaml:"parameters" toml:"parameters"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port" validate:"omitempty,min=1,max=65535"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	DBName   string `yaml:"dbname" toml:"dbname"`
	SSLMode  string `yaml:"sslmode" toml:"sslmode"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Duration accepts Go duration strings such as "30s" in YAML, JSON and TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Load reads a YAML, JSON or TOML config file, expanding environment
// variables, then applies defaults and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read config file: %w", domain.ErrConfig, err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := decode(path, expanded, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config: %w", domain.ErrConfig, err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	case ".json":
		// Re-encoded as YAML so the yaml tags apply; tab-indented JSON is not valid YAML.
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		normalized, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(normalized, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func (c *Config) setDefaults() {
	if c.SearchWindowHours == 0 {
		c.SearchWindowHours = DefaultSearchWindowHours
	}
	if c.SearchRepeatHours == 0 {
		c.SearchRepeatHours = DefaultSearchRepeatHours
	}
	if len(c.DailyCheckTimes) == 0 {
		c.DailyCheckTimes = append([]string(nil), DefaultDailyCheckTimes...)
	}
	if c.TimeZone == "" {
		c.TimeZone = DefaultTimeZone
	}
	if c.CacheDirectory == "" {
		c.CacheDirectory = DefaultCacheDirectory
	}
	if c.CacheBackend == "" {
		c.CacheBackend = DefaultCacheBackend
	}
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: invalid config: %w", domain.ErrConfig, err)
	}
	if c.CacheBackend == "postgres" && c.CacheEnabled && !c.Database.Enabled() {
		return fmt.Errorf("%w: cache_backend postgres requires a database", domain.ErrConfig)
	}
	return nil
}

// Overrides are command line values. Nil or empty fields leave the
// config file value in place.
type Overrides struct {
	SearchWindowHours *int
	SearchRepeatHours *int
	DailyCheckTimes   []string
	TimeZone          *string
	CacheDirectory    *string
	NoCache           bool
	Periodic          bool
	Environment       *string
}

// Apply layers command line overrides on top of the loaded config and
// validates the result.
func (c *Config) Apply(o Overrides) error {
	if o.SearchWindowHours != nil {
		c.SearchWindowHours = *o.SearchWindowHours
	}
	if o.SearchRepeatHours != nil {
		c.SearchRepeatHours = *o.SearchRepeatHours
	}
	if len(o.DailyCheckTimes) > 0 {
		c.DailyCheckTimes = o.DailyCheckTimes
	}
	if o.TimeZone != nil {
		c.TimeZone = *o.TimeZone
	}
	if o.CacheDirectory != nil {
		c.CacheDirectory = *o.CacheDirectory
	}
	if o.NoCache {
		c.CacheEnabled = false
	}
	if o.Periodic {
		c.Periodic = true
	}
	if o.Environment != nil {
		c.Environment = *o.Environment
	}
	return c.Validate()
}
