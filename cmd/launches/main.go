package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"launch_notifier/internal/config"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	debug      bool
	configPath string
	window     int
	service    bool
	env        string
	cacheDir   string
	noCache    bool
	periodic   bool
	interval   int
	times      []string
	timeZone   string
}

func newRootCmd() *cobra.Command {
	return newCommand(&rootOptions{})
}

func newCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launches",
		Short: "Notify about upcoming space launches",
		Long: `launches checks the Launch Library 2 API for upcoming space launches and
sends notifications through the configured handlers.

Without --service a single check runs and the command exits. With --service
checks run at daily times or, with --periodic, at a fixed interval. In
service mode launches are only reported when they are new or one of their
status, window start, NET or link lists changed since the previous check.`,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.debug, "debug", "d", envBool("LAUNCHES_DEBUG"), "enable debug logging")
	flags.StringVar(&opts.configPath, "config", envOr("LAUNCHES_CONFIG", config.DefaultPath), "config file path (.json, .yaml or .toml)")

	local := cmd.Flags()
	local.IntVar(&opts.window, "window", config.DefaultSearchWindowHours, "hours ahead to search for launches")
	local.BoolVar(&opts.service, "service", false, "run as a service checking for upcoming launches repeatedly")
	local.StringVar(&opts.env, "env", config.DefaultEnvironment, `Launch Library environment, "prod" or "dev"`)
	local.StringVar(&opts.cacheDir, "cache-dir", config.DefaultCacheDirectory, "directory for cache files")
	local.BoolVar(&opts.noCache, "no-cache", false, "disable caching of launch data")
	local.BoolVar(&opts.periodic, "periodic", false, "run checks periodically rather than at specific times")
	local.IntVar(&opts.interval, "interval", config.DefaultSearchRepeatHours, "hours between periodic checks")
	local.StringArrayVar(&opts.times, "times", nil, `daily check time "HH:MM", repeatable (default 07:00, 19:00)`)
	local.StringVar(&opts.timeZone, "timezone", config.DefaultTimeZone, "IANA time zone for daily check times")

	cmd.AddCommand(newHistoryCmd(opts))
	return cmd
}

// overrides returns only the flags set on the command line.
func (o *rootOptions) overrides(cmd *cobra.Command) config.Overrides {
	flags := cmd.Flags()
	var out config.Overrides
	if flags.Changed("window") {
		out.SearchWindowHours = &o.window
	}
	if flags.Changed("interval") {
		out.SearchRepeatHours = &o.interval
	}
	if flags.Changed("times") {
		out.DailyCheckTimes = o.times
	}
	if flags.Changed("timezone") {
		out.TimeZone = &o.timeZone
	}
	if flags.Changed("cache-dir") {
		out.CacheDirectory = &o.cacheDir
	}
	if flags.Changed("env") {
		out.Environment = &o.env
	}
	out.NoCache = o.noCache
	out.Periodic = o.periodic
	return out
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "t", "true", "1":
		return true
	default:
		return false
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
