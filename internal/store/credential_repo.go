package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Keys used for saved credentials.
const (
	KeyToken  = "token"
	KeyCode   = "code"
	KeyUserID = "user_id"
)

type credentialRepo struct {
	db *sql.DB
}

// Get returns the stored value or "" when the key is absent.
func (r *credentialRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential %q: %w", key, err)
	}
	return v, nil
}

func (r *credentialRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set credential %q: %w", key, err)
	}
	return nil
}

func (r *credentialRepo) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, k); err != nil {
			return fmt.Errorf("delete credential %q: %w", k, err)
		}
	}
	return nil
}
