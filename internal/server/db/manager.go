package db

import (
	"context"
	"database/sql"

	"github.com/avilovp/mediashuttle/internal/server/slots"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Slots() slots.Repository
	Close() error
}
