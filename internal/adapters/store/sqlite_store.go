package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the DomainStore interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single connection serialises writers and keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS disposable_domains (
			domain TEXT PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			added_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Contains reports whether the domain is stored
func (s *SQLiteStore) Contains(ctx context.Context, domain string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM disposable_domains WHERE domain = ?)
	`, domain).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query domain: %w", err)
	}
	return exists, nil
}

// Upsert inserts the record if its domain is new, otherwise refreshes updated_at.
// Both statements run in one transaction so readers never see a partial write.
func (s *SQLiteStore) Upsert(ctx context.Context, record *core.DisposableDomainRecord) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO disposable_domains (domain, source, added_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, record.Domain, record.Source, record.AddedAt.Format(time.RFC3339), record.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to insert domain: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	inserted := rowsAffected == 1

	if !inserted {
		if _, err := tx.ExecContext(ctx, `
			UPDATE disposable_domains SET updated_at = ? WHERE domain = ?
		`, record.UpdatedAt.Format(time.RFC3339), record.Domain); err != nil {
			return false, fmt.Errorf("failed to refresh domain: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit domain: %w", err)
	}
	return inserted, nil
}

// Count returns the number of stored domains
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM disposable_domains`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count domains: %w", err)
	}
	return count, nil
}

// Stop closes the database connection
func (s *SQLiteStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
