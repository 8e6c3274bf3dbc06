package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqlSlot keeps the blob in a slots(key, payload) table. SQLite and
// Postgres differ only in DDL and placeholders.
type sqlSlot struct {
	db      *sql.DB
	key     string
	selectQ string
	upsertQ string
}

func (s *sqlSlot) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.selectQ, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("select slot %s: %w", s.key, err)
	}
	return payload, nil
}

func (s *sqlSlot) Write(ctx context.Context, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQ, s.key, data); err != nil {
		return fmt.Errorf("upsert slot %s: %w", s.key, err)
	}
	return nil
}

// Close closes the database handle.
func (s *sqlSlot) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for integration tests.
func (s *sqlSlot) DB() *sql.DB { return s.db }
