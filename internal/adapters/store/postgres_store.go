package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

// PostgresStore is a PostgreSQL implementation of the DomainStore interface
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	store, err := NewPostgresStoreFromDB(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStoreFromDB creates a PostgreSQL store over an open handle and ensures the table exists
func NewPostgresStoreFromDB(db *sql.DB, logger *zap.Logger) (*PostgresStore, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS disposable_domains (
			domain VARCHAR(253) PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			added_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &PostgresStore{
		db:     db,
		logger: logger,
	}, nil
}

// Contains reports whether the domain is stored
func (s *PostgresStore) Contains(ctx context.Context, domain string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM disposable_domains WHERE domain = $1)
	`, domain).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query domain: %w", err)
	}
	return exists, nil
}

// Upsert inserts the record or refreshes updated_at on an existing domain.
// xmax is zero only for a row created by this statement.
func (s *PostgresStore) Upsert(ctx context.Context, record *core.DisposableDomainRecord) (bool, error) {
	var inserted bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO disposable_domains (domain, source, added_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (domain) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS inserted
	`, record.Domain, record.Source, record.AddedAt, record.UpdatedAt).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert domain: %w", err)
	}
	return inserted, nil
}

// Count returns the number of stored domains
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disposable_domains`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count domains: %w", err)
	}
	return count, nil
}

// Stop closes the database connection
func (s *PostgresStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close PostgreSQL database", zap.Error(err))
	}
}
