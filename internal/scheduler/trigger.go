package scheduler

import (
	"fmt"
	"time"

	"launch_notifier/internal/domain"
)

// Trigger computes when the next check cycle is due.
type Trigger interface {
	Next(after time.Time) time.Time
	String() string
}

// DailyTrigger fires once a day at a wall-clock time in a location.
type DailyTrigger struct {
	hour   int
	minute int
	loc    *time.Location
}

// NewDailyTrigger parses an "HH:MM" time of day.
func NewDailyTrigger(hhmm string, loc *time.Location) (DailyTrigger, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return DailyTrigger{}, fmt.Errorf("%w: invalid daily check time %q", domain.ErrConfig, hhmm)
	}
	if loc == nil {
		loc = time.UTC
	}
	return DailyTrigger{hour: t.Hour(), minute: t.Minute(), loc: loc}, nil
}

// Next returns the first occurrence of the time of day strictly after after.
// Times inside a DST gap resolve the way time.Date normalizes them.
func (d DailyTrigger) Next(after time.Time) time.Time {
	local := after.In(d.loc)
	y, m, day := local.Date()
	next := time.Date(y, m, day, d.hour, d.minute, 0, 0, d.loc)
	if !next.After(after) {
		next = time.Date(y, m, day+1, d.hour, d.minute, 0, 0, d.loc)
	}
	return next
}

func (d DailyTrigger) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", d.hour, d.minute, d.loc)
}

// IntervalTrigger fires a fixed duration after the previous evaluation.
type IntervalTrigger struct {
	every time.Duration
}

func NewIntervalTrigger(every time.Duration) (IntervalTrigger, error) {
	if every <= 0 {
		return IntervalTrigger{}, fmt.Errorf("%w: interval must be positive", domain.ErrInvalidArgument)
	}
	return IntervalTrigger{every: every}, nil
}

func (i IntervalTrigger) Next(after time.Time) time.Time {
	return after.Add(i.every)
}

func (i IntervalTrigger) String() string {
	return "every " + i.every.String()
}
