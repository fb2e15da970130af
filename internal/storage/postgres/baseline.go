package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"launch_notifier/internal/cache"
)

// DefaultBaselineKey is the launch_cache row used when no key is configured.
const DefaultBaselineKey = "upcoming"

// BaselineStore keeps the change cache baseline in the launch_cache table.
type BaselineStore struct {
	db  *sqlx.DB
	key string
}

func NewBaselineStore(db *sqlx.DB, key string) *BaselineStore {
	if key == "" {
		key = DefaultBaselineKey
	}
	return &BaselineStore{db: db, key: key}
}

func (s *BaselineStore) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	query := `SELECT payload FROM launch_cache WHERE cache_key = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &payload, query, s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrNoBaseline
	}
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	return payload, nil
}

func (s *BaselineStore) Save(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO launch_cache (cache_key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, s.key, data); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}
