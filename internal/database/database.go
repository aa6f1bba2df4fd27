package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"license-investigation/internal/config"
)

// Database represents the database connection and operations
type Database struct {
	db     *sqlx.DB
	logger *zap.Logger
	config *config.DatabaseConfig
}

// New creates a new database instance
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*Database, error) {
	if cfg == nil {
		return nil, errors.New("database config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	d := &Database{
		logger: logger.Named("database"),
		config: cfg,
	}

	if err := d.connect(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	return d, nil
}

// connect establishes the database connection and configures the pool
func (d *Database) connect() error {
	d.logger.Info("Connecting to database")

	db, err := sqlx.Connect("postgres", d.config.ConnectionString)
	if err != nil {
		return errors.Wrap(err, "failed to connect to postgres")
	}

	db.SetMaxOpenConns(d.config.MaxOpenConnections)
	db.SetMaxIdleConns(d.config.MaxIdleConnections)
	db.SetConnMaxLifetime(d.config.ConnectionLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), d.config.ConnectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.Wrap(err, "failed to ping database")
	}

	d.db = db
	d.logger.Info("Successfully connected to database")
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		d.logger.Info("Closing database connection")
		return d.db.Close()
	}
	return nil
}

// DB returns the underlying sqlx.DB instance
func (d *Database) DB() *sqlx.DB {
	return d.db
}

// Health checks the database health
func (d *Database) Health(ctx context.Context) error {
	if d.db == nil {
		return errors.New("database connection not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return d.db.PingContext(ctx)
}

// RunMigrations executes database migrations
func (d *Database) RunMigrations() error {
	d.logger.Info("Running database migrations", zap.String("path", d.config.MigrationPath))

	driver, err := postgres.WithInstance(d.db.DB, &postgres.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance(d.config.MigrationPath, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, "failed to create migration instance")
	}
	defer m.Close()

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "failed to run migrations")
	}

	if err == migrate.ErrNoChange {
		d.logger.Info("No new migrations to apply")
	} else {
		d.logger.Info("Successfully applied database migrations")
	}

	return nil
}

// BeginTx starts a new transaction
func (d *Database) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return d.db.BeginTxx(ctx, opts)
}

// GetContext executes a query and scans a single row into dest
func (d *Database) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, d.config.QueryTimeout)
	defer cancel()

	return d.db.GetContext(ctx, dest, query, args...)
}

// SelectContext executes a query and scans the result set into dest
func (d *Database) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, d.config.QueryTimeout)
	defer cancel()

	return d.db.SelectContext(ctx, dest, query, args...)
}

// ExecContext executes a query with context
func (d *Database) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.QueryTimeout)
	defer cancel()

	return d.db.ExecContext(ctx, query, args...)
}

// NamedExecContext executes a named query with context
func (d *Database) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.QueryTimeout)
	defer cancel()

	return d.db.NamedExecContext(ctx, query, arg)
}

// NamedQueryContext executes a named query with context
func (d *Database) NamedQueryContext(ctx context.Context, query string, arg interface{}) (*sqlx.Rows, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.QueryTimeout)
	defer cancel()

	return d.db.NamedQueryContext(ctx, query, arg)
}

// Repository represents a base repository with common database operations
type Repository struct {
	db     *Database
	logger *zap.Logger
}

// NewRepository creates a new repository instance
func NewRepository(db *Database, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger.Named("repository"),
	}
}

// DB returns the database instance
func (r *Repository) DB() *Database {
	return r.db
}

// WithTx executes a function within a database transaction
func (r *Repository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				r.logger.Error("Failed to rollback transaction after panic",
					zap.Error(rollbackErr))
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			r.logger.Error("Failed to rollback transaction",
				zap.Error(rollbackErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// Paginate provides pagination parameters for queries
type Paginate struct {
	Limit  int `json:"limit" validate:"min=1,max=1000"`
	Offset int `json:"offset" validate:"min=0"`
}
