package domain

import "time"

// CheckStats holds statistics about a single check cycle.
type CheckStats struct {
	CycleID    string
	CheckedAt  time.Time
	Deadline   time.Time
	Fetched    int
	Changed    int
	ChangedIDs []string
	Notified   bool
	Errors     int
	Duration   time.Duration
}

// PollState is the persisted summary of past check cycles.
type PollState struct {
	ID             int64      `db:"id"`
	SourceID       string     `db:"source_id"`
	LastCheckedAt  time.Time  `db:"last_checked_at"`
	LastNotifiedAt *time.Time `db:"last_notified_at"`
	TotalChecks    int64      `db:"total_checks"`
	TotalNotified  int64      `db:"total_notified"`
}

// PollRecord is one row of the check cycle history.
type PollRecord struct {
	CycleID    string        `db:"cycle_id"`
	SourceID   string        `db:"source_id"`
	CheckedAt  time.Time     `db:"checked_at"`
	Deadline   time.Time     `db:"deadline"`
	Fetched    int           `db:"fetched"`
	Changed    int           `db:"changed"`
	ChangedIDs []string      `db:"-"`
	Notified   bool          `db:"notified"`
	Errors     int           `db:"errors"`
	Duration   time.Duration `db:"-"`
}
