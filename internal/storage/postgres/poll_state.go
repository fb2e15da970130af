package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"launch_notifier/internal/domain"
)

// PollStateStore records check cycles: a running summary per source in
// poll_state and one poll_history row per cycle.
type PollStateStore struct {
	db *sqlx.DB
	tm *TransactionManager
}

func NewPollStateStore(db *sqlx.DB) *PollStateStore {
	return &PollStateStore{db: db, tm: NewTransactionManager(db)}
}

func (s *PollStateStore) Get(ctx context.Context, sourceID string) (*domain.PollState, error) {
	var state domain.PollState
	query := `
		SELECT id, source_id, last_checked_at, last_notified_at, total_checks, total_notified
		FROM poll_state
		WHERE source_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.PollState{SourceID: sourceID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get poll state: %w", err)
	}
	return &state, nil
}

// Record stores the outcome of one cycle atomically.
func (s *PollStateStore) Record(ctx context.Context, sourceID string, stats *domain.CheckStats) error {
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		var notifiedAt *time.Time
		var notified int64
		if stats.Notified {
			notifiedAt = &stats.CheckedAt
			notified = 1
		}

		_, err := exec.ExecContext(ctx, `
			INSERT INTO poll_state (source_id, last_checked_at, last_notified_at, total_checks, total_notified)
			VALUES ($1, $2, $3, 1, $4)
			ON CONFLICT (source_id) DO UPDATE SET
				last_checked_at = EXCLUDED.last_checked_at,
				last_notified_at = COALESCE(EXCLUDED.last_notified_at, poll_state.last_notified_at),
				total_checks = poll_state.total_checks + 1,
				total_notified = poll_state.total_notified + EXCLUDED.total_notified`,
			sourceID, stats.CheckedAt, notifiedAt, notified,
		)
		if err != nil {
			return fmt.Errorf("update poll state: %w", err)
		}

		changedIDs := stats.ChangedIDs
		if changedIDs == nil {
			changedIDs = []string{}
		}
		_, err = exec.ExecContext(ctx, `
			INSERT INTO poll_history (
				cycle_id, source_id, checked_at, deadline, fetched, changed,
				changed_ids, notified, errors, duration_ms
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			stats.CycleID, sourceID, stats.CheckedAt, stats.Deadline,
			stats.Fetched, stats.Changed, pq.Array(changedIDs),
			stats.Notified, stats.Errors, stats.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert poll history: %w", err)
		}
		return nil
	})
}

// Recent returns the latest cycles for a source, newest first.
func (s *PollStateStore) Recent(ctx context.Context, sourceID string, limit int) ([]domain.PollRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT cycle_id, source_id, checked_at, deadline, fetched, changed,
			changed_ids, notified, errors, duration_ms
		FROM poll_history
		WHERE source_id = $1
		ORDER BY checked_at DESC, id DESC
		LIMIT $2`

	rows, err := GetExecutor(ctx, s.db).QueryxContext(ctx, query, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query poll history: %w", err)
	}
	defer rows.Close()

	var records []domain.PollRecord
	for rows.Next() {
		var (
			r          domain.PollRecord
			changedIDs pq.StringArray
			durationMS int64
		)
		if err := rows.Scan(
			&r.CycleID, &r.SourceID, &r.CheckedAt, &r.Deadline, &r.Fetched, &r.Changed,
			&changedIDs, &r.Notified, &r.Errors, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan poll history: %w", err)
		}
		r.ChangedIDs = []string(changedIDs)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate poll history: %w", err)
	}
	return records, nil
}
