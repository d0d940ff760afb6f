package best

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore keeps entries in the kv_entries table.
type SQLStore struct{ db *sql.DB }

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, playerID, name string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE player_id=? AND name=?`,
		playerID, name,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", name, err)
	}
	return v, nil
}

func (s *SQLStore) Set(ctx context.Context, playerID, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO kv_entries (player_id, name, value, updated_at)
        VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
        ON CONFLICT(player_id, name) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at`,
		playerID, name, value,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, playerID, name string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE player_id=? AND name=?`, playerID, name,
	); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}
