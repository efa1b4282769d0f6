// Package database wraps sqlx with context-carried transactions, driver
// selection for the two supported backends (PostgreSQL and SQLite), and a
// migration service.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	// Registered drivers for the two supported backends.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Ramsey-B/yarrow/pkg/logging"
)

// Supported sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is the query surface repositories depend on. It mirrors the sqlx API
// for the calls actually used plus GetTx for context-carried transactions.
type DB interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Close() error
	DriverName() string
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	Rebind(query string) string
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	SetConnMaxIdleTime(d time.Duration)
	SetConnMaxLifetime(d time.Duration)
	SetMaxIdleConns(n int)
	SetMaxOpenConns(n int)
	GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, Tx, error)
	SQLDB() *sql.DB
}

type DatabaseInstance struct {
	*sqlx.DB
	logger logging.Logger
}

func NewDatabaseInstance(db *sqlx.DB, logger logging.Logger) DB {
	return &DatabaseInstance{
		DB:     db,
		logger: logger,
	}
}

func (db *DatabaseInstance) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, Tx, error) {
	return GetTx(ctx, db.logger, db, opts)
}

// SQLDB exposes the raw sql.DB for the migration driver.
func (db *DatabaseInstance) SQLDB() *sql.DB {
	return db.DB.DB
}

// Connect opens and pings a database. driverName must be DriverPostgres or
// DriverSQLite; the dsn is passed through untouched.
func Connect(ctx context.Context, driverName, dsn string, logger logging.Logger) (DB, error) {
	if driverName != DriverPostgres && driverName != DriverSQLite {
		return nil, errors.Errorf("unsupported database driver %q", driverName)
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// SQLite serializes writers; pooling connections just trades errors for
	// lock contention.
	if driverName == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	return NewDatabaseInstance(db, logger), nil
}
