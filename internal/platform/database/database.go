// Package database opens the application database and applies its schema.
//
// Three drivers are supported: "pgx" (default, jackc/pgx stdlib), "postgres"
// (lib/pq) and "sqlite" (modernc.org/sqlite, used for local runs and tests).
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"protocolo/pkg/platform/sentinel"
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config describes how to reach the database.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects, verifies the connection and applies migrations.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPgx
	}
	dsn := cfg.DSN
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}

	switch driver {
	case DriverSQLite:
		// a single connection keeps :memory: databases shared and serializes writers
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 25))
		db.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 5))
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		} else {
			db.SetConnMaxLifetime(5 * time.Minute)
		}
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}
	return dsn + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// ClassifyError maps driver errors to store sentinels. Unique violations become
// sentinel.ErrConflict and foreign key violations sentinel.ErrNotFound.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyCode(pgErr.Code, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyCode(string(pqErr.Code), err)
	}
	return err
}

func classifyCode(code string, err error) error {
	switch code {
	case "23505":
		return fmt.Errorf("%w: %v", sentinel.ErrConflict, err)
	case "23503":
		return fmt.Errorf("%w: %v", sentinel.ErrNotFound, err)
	default:
		return err
	}
}
