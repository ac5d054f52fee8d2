// Package repomanager wires repositories to database handles and owns the
// shared connection lifecycle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/penguindb/internal/dbx"
	"github.com/dmitrijs2005/penguindb/internal/repositories/penguins"
	"github.com/dmitrijs2005/penguindb/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Penguins(db dbx.DBTX) penguins.Repository
}
