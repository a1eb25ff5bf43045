package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"adoptions/internal/domain"
	"adoptions/internal/port"
)

// kvRepo stores values in the kv_entries table created by db/migrations.
type kvRepo struct {
	db *sqlx.DB
}

// NewKVRepo creates a new PostgreSQL-backed KeyValueStore.
func NewKVRepo(db *sqlx.DB) port.KeyValueStore {
	return &kvRepo{db: db}
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.GetContext(ctx, &value, `SELECT value FROM kv_entries WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting kv entry %q: %w", key, err)
	}
	return value, nil
}

func (r *kvRepo) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("upserting kv entry %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("deleting kv entry %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *kvRepo) Close() error {
	return r.db.Close()
}
