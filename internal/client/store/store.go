// Package store provides the client's local persistence: a small sqlite
// database holding the persisted session (token + serialized user) and the
// session's unlocked-contact cache.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS unlocked_contacts (
	id          TEXT PRIMARY KEY,
	payload     BLOB NOT NULL,
	unlocked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store bundles the repositories over one database handle.
type Store struct {
	DB       *sql.DB
	KV       *KVRepository
	Contacts *ContactCacheRepository
}

// Open opens (creating if needed) the local database at dsn and ensures the
// schema exists. The schema statements are idempotent.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{
		DB:       db,
		KV:       NewKVRepository(db),
		Contacts: NewContactCacheRepository(db),
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.DB.Close()
}
