package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// pgx database/sql driver registered as "pgx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stockpile/stockpile-api/internal/config"
	"github.com/stockpile/stockpile-api/internal/store"
)

// Store is the PostgreSQL Backend. It owns the connection pool when created
// through Open.
type Store struct {
	db     store.DBTX
	closer func() error
	logger *slog.Logger
}

var _ store.Backend = (*Store)(nil)

// Open establishes a connection pool for cfg and verifies it with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	uri, err := cfg.ConnectionURI()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", MapError(err))
	}

	if logger != nil {
		logger.Info("database connection established", slog.String("driver", "postgres"))
	}
	return db, nil
}

// NewStore creates a Store on top of db. The caller remains responsible for
// closing db unless it is an *sql.DB handed over for ownership, in which case
// Close closes it.
func NewStore(db store.DBTX, logger *slog.Logger) *Store {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_store")),
	}
	if sqlDB, ok := db.(*sql.DB); ok {
		s.closer = sqlDB.Close
	}
	return s
}

// Ping implements store.ItemStore.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return MapError(err)
	}
	return nil
}

// Close implements store.Backend.
func (s *Store) Close(_ context.Context) error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.logger.Info("database connection closed")
	return nil
}
