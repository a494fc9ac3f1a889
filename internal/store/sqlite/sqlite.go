// Package sqlite is the SQLite-backed MessageStore used by chat clients
// embedding the engine.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avilovp/mediashuttle/internal/common"
	"github.com/avilovp/mediashuttle/internal/dbx"
	"github.com/avilovp/mediashuttle/internal/store"
)

type MessageStore struct {
	db dbx.DBTX
}

func NewMessageStore(db dbx.DBTX) *MessageStore {
	return &MessageStore{db: db}
}

// Migrate creates the transfers table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS transfers (
  message_id   TEXT PRIMARY KEY,
  url          TEXT NOT NULL,
  locator      TEXT NOT NULL DEFAULT '',
  size         INTEGER NOT NULL DEFAULT 0,
  content_type TEXT NOT NULL DEFAULT '',
  status       TEXT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("migrating transfers table: %w", err)
	}
	return nil
}

func (s *MessageStore) SaveTransfer(ctx context.Context, t *store.Transfer) error {
	query := `INSERT INTO transfers (message_id, url, locator, size, content_type, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
			url = excluded.url,
			locator = excluded.locator,
			size = excluded.size,
			content_type = excluded.content_type,
			status = excluded.status`
	if _, err := s.db.ExecContext(ctx, query, t.MessageID, t.URL, t.Locator, t.Size, t.ContentType, t.Status); err != nil {
		return fmt.Errorf("failed to upsert transfer: %w", err)
	}
	return nil
}

func (s *MessageStore) GetTransfer(ctx context.Context, messageID string) (*store.Transfer, error) {
	query := `SELECT message_id, url, locator, size, content_type, status FROM transfers WHERE message_id = ?`
	row := s.db.QueryRowContext(ctx, query, messageID)

	t := &store.Transfer{}
	err := row.Scan(&t.MessageID, &t.URL, &t.Locator, &t.Size, &t.ContentType, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transfer for message %s", common.ErrNotFound, messageID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select transfer: %w", err)
	}
	return t, nil
}

func (s *MessageStore) UpdateTransfer(ctx context.Context, t *store.Transfer) error {
	query := `UPDATE transfers SET url = ?, locator = ?, size = ?, content_type = ?, status = ? WHERE message_id = ?`
	result, err := s.db.ExecContext(ctx, query, t.URL, t.Locator, t.Size, t.ContentType, t.Status, t.MessageID)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: transfer for message %s", common.ErrNotFound, t.MessageID)
	}
	return nil
}
