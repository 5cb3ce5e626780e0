package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/instaexplore/instacli/internal/dbx"
)

// Durable storage keys. These are the only values the client persists across
// restarts.
const (
	keyToken    = "token"
	keyAccounts = "accounts"
)

// Repository is a small key/value store over the local sqlite database,
// holding the active credential and the remembered-accounts list.
type Repository struct {
	db dbx.DBTX
}

func NewRepository(db dbx.DBTX) *Repository {
	return &Repository{db: db}
}

// Get returns the stored value for key, or nil when absent.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func (r *Repository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}
