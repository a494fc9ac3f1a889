package slots

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleSlot() *IssuedSlot {
	return &IssuedSlot{
		ID:          "s1",
		UserID:      "u1",
		ObjectKey:   "uploads/2026/8/29/abc",
		Filename:    "photo.jpg",
		Size:        1024,
		ContentType: "image/jpeg",
		IssuedAt:    time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleSlot()

	mock.ExpectExec(`INSERT INTO upload_slots .*`).
		WithArgs(s.ID, s.UserID, s.ObjectKey, s.Filename, s.Size, s.ContentType, s.IssuedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Insert(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_ExecError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	dbErr := errors.New("connection refused")

	mock.ExpectExec(`INSERT INTO upload_slots .*`).
		WillReturnError(dbErr)

	err := repo.Insert(context.Background(), sampleSlot())
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestInsert_UnexpectedRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO upload_slots .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Insert(context.Background(), sampleSlot()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestIssuedBytesSince_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	since := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(4096))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(size\), 0\) FROM upload_slots .*`).
		WithArgs("u1", since).
		WillReturnRows(rows)

	total, err := repo.IssuedBytesSince(context.Background(), "u1", since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4096 {
		t.Fatalf("expected total 4096, got %d", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIssuedBytesSince_NoSlots(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	since := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(size\), 0\) FROM upload_slots .*`).
		WithArgs("u2", since).
		WillReturnRows(rows)

	total, err := repo.IssuedBytesSince(context.Background(), "u2", since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected total 0, got %d", total)
	}
}

func TestIssuedBytesSince_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	dbErr := errors.New("relation does not exist")

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(size\), 0\) FROM upload_slots .*`).
		WillReturnError(dbErr)

	_, err := repo.IssuedBytesSince(context.Background(), "u1", time.Now())
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
