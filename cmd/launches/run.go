package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"launch_notifier/internal/cache"
	"launch_notifier/internal/config"
	"launch_notifier/internal/metrics"
	"launch_notifier/internal/notify"
	"launch_notifier/internal/scheduler"
	"launch_notifier/internal/service"
	"launch_notifier/internal/source/ll2"
	"launch_notifier/internal/storage/postgres"
)

func run(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Apply(opts.overrides(cmd)); err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}

	logger, logCloser := setupLogger(resolveLogLevel(opts.debug, cfg.LogLevel, opts.service), cfg.LogFile)
	defer logCloser.Close()
	logger.Debug("loaded config", "path", opts.configPath, "service", opts.service, "periodic", cfg.Periodic)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if cfg.MetricsAddress != "" {
		srv := metrics.NewServer(cfg.MetricsAddress)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer shutdown(srv)
		logger.Info("serving metrics", "address", cfg.MetricsAddress)
	}

	var db *sqlx.DB
	if cfg.Database.Enabled() {
		db, err = postgres.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("connected to database")
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}

	handlers, err := notify.NewHandlers(ctx, handlerSpecs(cfg.NotificationHandlers), notify.Options{Location: loc}, logger)
	if err != nil {
		return fmt.Errorf("load notification handlers: %w", err)
	}
	dispatcher := notify.NewDispatcher(handlers, logger)
	defer dispatcher.Close()

	client, err := ll2.New(ll2.Config{
		Env:      ll2.Environment(cfg.Environment),
		Timeout:  time.Duration(cfg.RequestTimeout),
		Detailed: cfg.Detailed,
	}, logger)
	if err != nil {
		return err
	}

	var recorder service.PollStateRecorder
	if db != nil {
		recorder = postgres.NewPollStateStore(db)
	}

	checkerCfg := service.CheckerConfig{WindowHours: cfg.SearchWindowHours}

	if !opts.service {
		checker, err := service.NewChecker(client, nil, dispatcher, recorder, logger, checkerCfg)
		if err != nil {
			return err
		}
		return scheduler.RunOnce(ctx, checker, logger)
	}

	var filter service.ChangeFilter
	if cfg.CacheEnabled {
		store, closeStore, err := openCacheStore(cfg, db)
		if err != nil {
			return err
		}
		defer closeStore()
		filter = cache.New(ctx, store, true, logger)
		logger.Info("change cache enabled", "backend", cfg.CacheBackend, "directory", cfg.CacheDirectory)
	}

	checker, err := service.NewChecker(client, filter, dispatcher, recorder, logger, checkerCfg)
	if err != nil {
		return err
	}

	var sched *scheduler.Scheduler
	if cfg.Periodic {
		logger.Info("starting periodic launch checks",
			"interval_hours", cfg.SearchRepeatHours,
			"window_hours", cfg.SearchWindowHours,
		)
		sched, err = scheduler.NewPeriodic(checker, cfg.SearchRepeatHours, logger)
	} else {
		logger.Info("starting scheduled launch checks",
			"times", cfg.DailyCheckTimes,
			"time_zone", cfg.TimeZone,
			"window_hours", cfg.SearchWindowHours,
		)
		sched, err = scheduler.NewDaily(checker, cfg.DailyCheckTimes, cfg.TimeZone, logger)
	}
	if err != nil {
		return err
	}

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

func handlerSpecs(cfgs []config.NotificationHandlerConfig) []notify.HandlerSpec {
	specs := make([]notify.HandlerSpec, 0, len(cfgs))
	for _, c := range cfgs {
		specs = append(specs, notify.HandlerSpec{
			Service:    c.Service,
			Renderer:   c.Renderer,
			Parameters: c.Parameters,
		})
	}
	return specs
}

func openCacheStore(cfg *config.Config, db *sqlx.DB) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case "bolt":
		store, err := cache.NewBoltStore(cfg.CacheDirectory)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "postgres":
		if db == nil {
			return nil, nil, fmt.Errorf("cache_backend postgres requires a database")
		}
		return postgres.NewBaselineStore(db, cfg.Environment), func() {}, nil
	default:
		store, err := cache.NewFileStore(cfg.CacheDirectory)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
