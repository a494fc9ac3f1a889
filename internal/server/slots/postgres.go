package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/avilovp/mediashuttle/internal/dbx"
)

// PostgresRepository implements the ledger over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, s *IssuedSlot) error {
	query := `
		INSERT INTO upload_slots (id, user_id, object_key, filename, size, content_type, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.ObjectKey, s.Filename, s.Size, s.ContentType, s.IssuedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

func (r *PostgresRepository) IssuedBytesSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(size), 0) FROM upload_slots WHERE user_id=$1 AND issued_at>=$2`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum issued slots: %w", err)
	}
	return total, nil
}
