// Package sqlite implements repository.HistoryRepository using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/linkmux/linkmux/internal/domain"
	"github.com/linkmux/linkmux/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS shorten_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	provider TEXT NOT NULL,
	original_url TEXT NOT NULL,
	short_url TEXT NOT NULL DEFAULT '',
	succeeded INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shorten_history_created_at ON shorten_history(created_at);
`

// Repository implements repository.HistoryRepository using SQLite.
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite history repository at databasePath.
func New(databasePath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode keeps concurrent dispatch flows from blocking on writes.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Record appends one shorten attempt to the history.
func (r *Repository) Record(ctx context.Context, entry domain.HistoryEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shorten_history (provider, original_url, short_url, succeeded, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(entry.Provider), entry.OriginalURL, entry.ShortURL, entry.Succeeded, createdAt)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent retrieves the most recent history entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, provider, original_url, short_url, succeeded, created_at
		 FROM shorten_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var provider string
		if err := rows.Scan(&entry.ID, &provider, &entry.OriginalURL, &entry.ShortURL, &entry.Succeeded, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Provider = domain.ProviderID(provider)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}

// Close closes the repository connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ensure Repository implements the interface
var _ repository.HistoryRepository = (*Repository)(nil)
