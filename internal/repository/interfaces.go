package repository

import (
	"context"

	"github.com/linkmux/linkmux/internal/domain"
)

// HistoryRepository persists an audit trail of shorten attempts. The trail
// is additive bookkeeping; dispatch never depends on it and a nil repository
// disables recording entirely.
type HistoryRepository interface {
	// Record appends one shorten attempt to the history.
	Record(ctx context.Context, entry domain.HistoryEntry) error

	// Recent retrieves the most recent history entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Close closes the repository connection.
	Close() error
}
