package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linkmux/linkmux/internal/domain"
)

// HistoryRepository is a mock implementation of repository.HistoryRepository
type HistoryRepository struct {
	mock.Mock
}

// Record appends one shorten attempt to the history
func (m *HistoryRepository) Record(ctx context.Context, entry domain.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Recent retrieves the most recent history entries
func (m *HistoryRepository) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

// Close closes the repository connection
func (m *HistoryRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
