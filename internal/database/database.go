package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database/authors"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/entities"
)

// sqliteParams turns on FK enforcement (needed for ON DELETE CASCADE) and
// lets concurrent requests wait on the write lock instead of failing.
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// Work is a unit of work: repositories sharing one connection or transaction.
type Work struct {
	Authors *authors.Repository
	Books   *books.Repository
}

func newWork(db *gorm.DB) *Work {
	return &Work{
		Authors: authors.NewRepository(db),
		Books:   books.NewRepository(db),
	}
}

// Open connects to the configured store without touching the schema.
func Open(cfg config.Database, logLevel logger.LogLevel) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite, "":
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("DATABASE_DSN is required for the postgres driver")
		}
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}
	return &Database{DB: db, Driver: driver}, nil
}

// NewDatabase opens the store and brings the schema up to date.
func NewDatabase(cfg config.Database, logLevel logger.LogLevel) (*Database, error) {
	database, err := Open(cfg, logLevel)
	if err != nil {
		return nil, err
	}

	if err := database.DB.AutoMigrate(&entities.Author{}, &entities.Book{}); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if _, err := database.EnsureRatingColumn(); err != nil {
		_ = database.Close()
		return nil, err
	}

	log.Info().Str("driver", string(database.Driver)).Msg("Database initialized successfully")

	return database, nil
}

// EnsureRatingColumn adds books.rating to databases created before ratings
// existed. It is idempotent and reports whether the column was added.
func (d *Database) EnsureRatingColumn() (bool, error) {
	migrator := d.DB.Migrator()
	if !migrator.HasTable(&entities.Book{}) {
		return false, errors.New("books table does not exist")
	}
	if migrator.HasColumn(&entities.Book{}, "Rating") {
		return false, nil
	}
	if err := migrator.AddColumn(&entities.Book{}, "Rating"); err != nil {
		return false, fmt.Errorf("failed to add rating column: %w", err)
	}
	return true, nil
}

// Work returns repositories for single-statement reads outside a transaction.
func (d *Database) Work(ctx context.Context) *Work {
	return newWork(d.DB.WithContext(ctx))
}

// Transaction runs fn inside one transaction. It commits when fn returns nil
// and rolls back on an error or panic, so no partial write is observable.
func (d *Database) Transaction(ctx context.Context, fn func(w *Work) error) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newWork(tx))
	})
}

// SQLDB exposes the pooled connection, e.g. for the session store.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

// Stats holds row counts for the health endpoint.
type Stats struct {
	Authors int64
	Books   int64
}

func (d *Database) Stats(ctx context.Context) (Stats, error) {
	w := d.Work(ctx)
	authors, err := w.Authors.Count()
	if err != nil {
		return Stats{}, err
	}
	books, err := w.Books.Count()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Authors: authors, Books: books}, nil
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}
