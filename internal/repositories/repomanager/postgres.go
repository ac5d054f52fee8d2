package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/penguindb/internal/dbx"
	"github.com/dmitrijs2005/penguindb/internal/migrations"
	"github.com/dmitrijs2005/penguindb/internal/repositories/penguins"
	"github.com/dmitrijs2005/penguindb/internal/repositories/users"
)

// connectTimeout bounds connection establishment at startup; an unreachable
// database fails fast instead of hanging on the driver default.
const connectTimeout = 5 * time.Second

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Penguins(db dbx.DBTX) penguins.Repository {
	return penguins.NewPostgresRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}

// Connect opens the single shared database handle and verifies reachability
// within connectTimeout. All requests share the returned handle; no
// per-request connection is opened above the pool.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}

// ServerVersion probes the connection and reports the PostgreSQL version
// string; used by the connectivity endpoint.
func ServerVersion(ctx context.Context, db dbx.DBTX) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, `SELECT version()`).Scan(&version); err != nil {
		return "", fmt.Errorf("db probe error: %w", err)
	}
	return version, nil
}

// DatabaseName reports the name of the connected database.
func DatabaseName(ctx context.Context, db dbx.DBTX) (string, error) {
	var name string
	if err := db.QueryRowContext(ctx, `SELECT current_database()`).Scan(&name); err != nil {
		return "", fmt.Errorf("db probe error: %w", err)
	}
	return name, nil
}
