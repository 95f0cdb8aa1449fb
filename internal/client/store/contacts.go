package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
	"github.com/jobdeck/jobdeck-cli/internal/dbx"
)

// ContactCacheRepository persists contacts the user has already paid to
// reveal, so repeat views within a session never re-spend a credit.
type ContactCacheRepository struct {
	db dbx.DBTX
}

func NewContactCacheRepository(db dbx.DBTX) *ContactCacheRepository {
	return &ContactCacheRepository{db: db}
}

// Get returns the cached revealed contact, or nil if it was never unlocked.
func (r *ContactCacheRepository) Get(ctx context.Context, id string) (*models.Contact, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM unlocked_contacts WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached contact %s: %w", id, err)
	}
	var c models.Contact
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cached contact %s: %w", id, err)
	}
	return &c, nil
}

// Put upserts a revealed contact.
func (r *ContactCacheRepository) Put(ctx context.Context, c models.Contact) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode contact %s: %w", c.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO unlocked_contacts (id, payload) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload
	`, c.ID, payload)
	if err != nil {
		return fmt.Errorf("failed to cache contact %s: %w", c.ID, err)
	}
	return nil
}

// Clear wipes the cache. Called on logout: revealed contacts belong to the
// account that paid for them.
func (r *ContactCacheRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM unlocked_contacts`)
	if err != nil {
		return fmt.Errorf("failed to clear contact cache: %w", err)
	}
	return nil
}
