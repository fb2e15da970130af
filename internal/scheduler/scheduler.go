package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"launch_notifier/internal/domain"
)

const defaultTick = 30 * time.Second

// Checker runs one check cycle.
type Checker interface {
	Check(ctx context.Context) (*domain.CheckStats, error)
}

type State int32

const (
	StateIdle State = iota
	StateWaiting
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

type Option func(*Scheduler)

// WithTick sets how often triggers are evaluated.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

type entry struct {
	trigger Trigger
	next    time.Time
}

type Scheduler struct {
	checker   Checker
	entries   []*entry
	runOnBoot bool
	tick      time.Duration
	now       func() time.Time
	state     atomic.Int32
	logger    *slog.Logger
}

func newScheduler(checker Checker, triggers []Trigger, runOnBoot bool, logger *slog.Logger, opts []Option) *Scheduler {
	s := &Scheduler{
		checker:   checker,
		runOnBoot: runOnBoot,
		tick:      defaultTick,
		now:       time.Now,
		logger:    logger.With("component", "scheduler"),
	}
	for _, t := range triggers {
		s.entries = append(s.entries, &entry{trigger: t})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDaily schedules a cycle at each "HH:MM" in times, in the named IANA zone.
func NewDaily(checker Checker, times []string, timeZone string, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: no daily check times", domain.ErrConfig)
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", domain.ErrConfig, timeZone)
	}

	triggers := make([]Trigger, 0, len(times))
	for _, hhmm := range times {
		t, err := NewDailyTrigger(hhmm, loc)
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, t)
	}
	return newScheduler(checker, triggers, false, logger, opts), nil
}

// NewPeriodic schedules a cycle every repeatHours, starting immediately.
func NewPeriodic(checker Checker, repeatHours int, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	if repeatHours <= 0 {
		return nil, fmt.Errorf("%w: repeat_hours must be a positive int", domain.ErrInvalidArgument)
	}
	t, err := NewIntervalTrigger(time.Duration(repeatHours) * time.Hour)
	if err != nil {
		return nil, err
	}
	return newScheduler(checker, []Trigger{t}, true, logger, opts), nil
}

// RunOnce runs exactly one check cycle. A failed cycle is logged, not
// returned; the error result is reserved for a cancelled ctx.
func RunOnce(ctx context.Context, checker Checker, logger *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := checker.Check(context.WithoutCancel(ctx)); err != nil {
		logger.Error("check failed", "error", err)
	}
	return nil
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// NextRuns returns the next fire time of each trigger in registration order.
func (s *Scheduler) NextRuns() []time.Time {
	out := make([]time.Time, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.next
	}
	return out
}

// Start evaluates triggers every tick and runs due cycles until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	now := s.now()
	for _, e := range s.entries {
		e.next = e.trigger.Next(now)
		s.logger.Info("trigger scheduled", "trigger", e.trigger.String(), "next_run", e.next)
	}
	s.state.Store(int32(StateWaiting))
	defer s.state.Store(int32(StateIdle))

	s.logger.Info("scheduler started", "triggers", len(s.entries), "tick", s.tick)

	if s.runOnBoot {
		s.runCheck(ctx)
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPending(ctx)
		}
	}
}

func (s *Scheduler) runPending(ctx context.Context) {
	for _, e := range s.entries {
		if ctx.Err() != nil {
			return
		}
		if s.now().Before(e.next) {
			continue
		}
		s.runCheck(ctx)
		e.next = e.trigger.Next(s.now())
		s.logger.Debug("trigger rescheduled", "trigger", e.trigger.String(), "next_run", e.next)
	}
}

func (s *Scheduler) runCheck(ctx context.Context) {
	s.state.Store(int32(StateRunning))
	defer s.state.Store(int32(StateWaiting))

	// A running cycle finishes even after shutdown is requested.
	if _, err := s.checker.Check(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("check failed", "error", err)
	}
}
