package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

const mysqlTimeFormat = "2006-01-02 15:04:05"

// MySQLStore is a MySQL implementation of the DomainStore interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL store
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	store, err := NewMySQLStoreFromDB(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewMySQLStoreFromDB creates a MySQL store over an open handle and ensures the table exists
func NewMySQLStoreFromDB(db *sql.DB, logger *zap.Logger) (*MySQLStore, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS disposable_domains (
			domain VARCHAR(253) PRIMARY KEY,
			source VARCHAR(255) NOT NULL DEFAULT '',
			added_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// Contains reports whether the domain is stored
func (s *MySQLStore) Contains(ctx context.Context, domain string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM disposable_domains WHERE domain = ?)
	`, domain).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query domain: %w", err)
	}
	return exists, nil
}

// Upsert inserts the record or refreshes updated_at on an existing domain.
// MySQL reports one affected row for an insert and two for an update.
func (s *MySQLStore) Upsert(ctx context.Context, record *core.DisposableDomainRecord) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO disposable_domains (domain, source, added_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			updated_at = VALUES(updated_at)
	`, record.Domain, record.Source, record.AddedAt.Format(mysqlTimeFormat), record.UpdatedAt.Format(mysqlTimeFormat))
	if err != nil {
		return false, fmt.Errorf("failed to upsert domain: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// Count returns the number of stored domains
func (s *MySQLStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disposable_domains`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count domains: %w", err)
	}
	return count, nil
}

// Stop closes the database connection
func (s *MySQLStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
