package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jobdeck/jobdeck-cli/internal/dbx"
)

// Keys used by the session layer. These are the only two pieces of state
// the client persists across runs.
const (
	KeyAuthToken = "auth_token"
	KeyAuthUser  = "auth_user"
)

// KVRepository is a key-value table over a DBTX (either *sql.DB or *sql.Tx).
type KVRepository struct {
	db dbx.DBTX
}

func NewKVRepository(db dbx.DBTX) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value for key, or nil if the key is absent.
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

// Set upserts the value for key.
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

// SetPair upserts two keys in one transaction, so a crash mid-write can
// never leave one of them stale. The session layer uses it for the
// token+user pair. When the repository already runs inside a transaction
// the writes join it.
func (r *KVRepository) SetPair(ctx context.Context, key1 string, val1 []byte, key2 string, val2 []byte) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		if err := r.Set(ctx, key1, val1); err != nil {
			return err
		}
		return r.Set(ctx, key2, val2)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		kv := NewKVRepository(tx)
		if err := kv.Set(ctx, key1, val1); err != nil {
			return err
		}
		return kv.Set(ctx, key2, val2)
	})
}

// Delete removes key if present.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

// Clear wipes the whole table.
func (r *KVRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv`)
	if err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}
