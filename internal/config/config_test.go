package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"launch_notifier/internal/domain"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

const minimalJSON = `{
	"notification_handlers": [
		{"service": "stdout", "renderer": "plaintext", "parameters": {}}
	]
}`

func (s *ConfigTestSuite) TestLoad_DefaultsFromMinimalJSON() {
	cfg, err := Load(s.write("config.json", minimalJSON))
	s.Require().NoError(err)

	s.Equal(48, cfg.SearchWindowHours)
	s.Equal(24, cfg.SearchRepeatHours)
	s.Equal([]string{"07:00", "19:00"}, cfg.DailyCheckTimes)
	s.Equal("America/Chicago", cfg.TimeZone)
	s.Equal("./.launches_cache", cfg.CacheDirectory)
	s.Equal("file", cfg.CacheBackend)
	s.Equal("prod", cfg.Environment)
	s.Equal(Duration(30*time.Second), cfg.RequestTimeout)
	s.False(cfg.CacheEnabled)
	s.False(cfg.Periodic)
	s.False(cfg.Database.Enabled())
	s.Require().Len(cfg.NotificationHandlers, 1)
	s.Equal("stdout", cfg.NotificationHandlers[0].Service)
}

func (s *ConfigTestSuite) TestLoad_FullJSON() {
	cfg, err := Load(s.write("config.json", `{
		"search_window_hours": 24,
		"search_repeat_hours": 6,
		"daily_check_times": ["06:30"],
		"time_zone": "UTC",
		"cache_enabled": true,
		"cache_directory": "/var/cache/launches",
		"notification_handlers": [
			{
				"service": "email",
				"renderer": "html",
				"parameters": {
					"smtp_server": "smtp.example.com",
					"smtp_port": 587,
					"use_tls": false,
					"sender": "launches@example.com",
					"recipients": ["a@example.com", "b@example.com"]
				}
			}
		]
	}`))
	s.Require().NoError(err)

	s.Equal(24, cfg.SearchWindowHours)
	s.Equal(6, cfg.SearchRepeatHours)
	s.Equal([]string{"06:30"}, cfg.DailyCheckTimes)
	s.True(cfg.CacheEnabled)
	s.Equal("/var/cache/launches", cfg.CacheDirectory)

	params := cfg.NotificationHandlers[0].Parameters
	s.Equal("smtp.example.com", params["smtp_server"])
	s.EqualValues(587, params["smtp_port"])
	s.Len(params["recipients"], 2)
}

func (s *ConfigTestSuite) TestLoad_YAMLWithEnvExpansion() {
	s.T().Setenv("LAUNCHES_TEST_SMTP_HOST", "mail.internal")
	cfg, err := Load(s.write("config.yaml", `
search_window_hours: 12
request_timeout: 10s
log_level: debug
metrics_address: ":9090"
database:
  host: localhost
  user: launches
  dbname: launches
notification_handlers:
  - service: email
    parameters:
      smtp_server: ${LAUNCHES_TEST_SMTP_HOST}
      smtp_port: 25
      sender: launches@example.com
      recipients: ops@example.com
`))
	s.Require().NoError(err)

	s.Equal(12, cfg.SearchWindowHours)
	s.Equal(Duration(10*time.Second), cfg.RequestTimeout)
	s.Equal("debug", cfg.LogLevel)
	s.Equal(":9090", cfg.MetricsAddress)
	s.True(cfg.Database.Enabled())
	s.Equal(5432, cfg.Database.Port)
	s.Contains(cfg.Database.DSN(), "host=localhost port=5432 user=launches")
	s.Equal("mail.internal", cfg.NotificationHandlers[0].Parameters["smtp_server"])
}

func (s *ConfigTestSuite) TestLoad_TOML() {
	cfg, err := Load(s.write("config.toml", `
search_window_hours = 72
periodic = true
cache_backend = "bolt"
request_timeout = "45s"

[[notification_handlers]]
service = "stdout"
`))
	s.Require().NoError(err)

	s.Equal(72, cfg.SearchWindowHours)
	s.True(cfg.Periodic)
	s.Equal("bolt", cfg.CacheBackend)
	s.Equal(Duration(45*time.Second), cfg.RequestTimeout)
}

func (s *ConfigTestSuite) TestLoad_Errors() {
	cases := map[string]struct {
		name    string
		content string
	}{
		"no handlers":      {"config.json", `{"notification_handlers": []}`},
		"handlers missing": {"config.json", `{"search_window_hours": 4}`},
		"malformed json":   {"config.json", `{"notification_handlers": [`},
		"negative window":  {"config.json", `{"search_window_hours": -1, "notification_handlers": [{"service": "stdout"}]}`},
		"bad check time":   {"config.json", `{"daily_check_times": ["7pm"], "notification_handlers": [{"service": "stdout"}]}`},
		"bad time zone":    {"config.json", `{"time_zone": "Moon/Tranquility", "notification_handlers": [{"service": "stdout"}]}`},
		"bad environment":  {"config.json", `{"environment": "staging", "notification_handlers": [{"service": "stdout"}]}`},
		"bad backend":      {"config.json", `{"cache_backend": "redis", "notification_handlers": [{"service": "stdout"}]}`},
		"postgres no db":   {"config.json", `{"cache_enabled": true, "cache_backend": "postgres", "notification_handlers": [{"service": "stdout"}]}`},
		"bad duration":     {"config.yaml", "request_timeout: soon\nnotification_handlers: [{service: stdout}]\n"},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			_, err := Load(s.write(tc.name, tc.content))
			s.ErrorIs(err, domain.ErrConfig)
		})
	}
}

func (s *ConfigTestSuite) TestLoad_MissingFile() {
	_, err := Load(filepath.Join(s.dir, "missing.json"))
	s.ErrorIs(err, domain.ErrConfig)
}

func (s *ConfigTestSuite) TestApply_FlagBeatsFileBeatsDefault() {
	cfg, err := Load(s.write("config.json", `{
		"search_window_hours": 24,
		"time_zone": "UTC",
		"cache_enabled": true,
		"notification_handlers": [{"service": "stdout"}]
	}`))
	s.Require().NoError(err)

	s.Require().NoError(cfg.Apply(Overrides{}))
	s.Equal(24, cfg.SearchWindowHours)
	s.Equal("UTC", cfg.TimeZone)
	s.Equal(24, cfg.SearchRepeatHours)
	s.True(cfg.CacheEnabled)

	s.Require().NoError(cfg.Apply(Overrides{
		SearchWindowHours: intPtr(6),
		SearchRepeatHours: intPtr(2),
		DailyCheckTimes:   []string{"08:15", "20:45"},
		TimeZone:          strPtr("Europe/Berlin"),
		CacheDirectory:    strPtr("/tmp/launches"),
		NoCache:           true,
		Periodic:          true,
		Environment:       strPtr("dev"),
	}))
	s.Equal(6, cfg.SearchWindowHours)
	s.Equal(2, cfg.SearchRepeatHours)
	s.Equal([]string{"08:15", "20:45"}, cfg.DailyCheckTimes)
	s.Equal("Europe/Berlin", cfg.TimeZone)
	s.Equal("/tmp/launches", cfg.CacheDirectory)
	s.False(cfg.CacheEnabled)
	s.True(cfg.Periodic)
	s.Equal("dev", cfg.Environment)
}

func (s *ConfigTestSuite) TestApply_InvalidOverride() {
	cfg, err := Load(s.write("config.json", minimalJSON))
	s.Require().NoError(err)

	s.ErrorIs(cfg.Apply(Overrides{SearchWindowHours: intPtr(0)}), domain.ErrConfig)
	s.ErrorIs(cfg.Apply(Overrides{Environment: strPtr("qa")}), domain.ErrConfig)
}
