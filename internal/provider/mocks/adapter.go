package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linkmux/linkmux/internal/domain"
)

// Adapter is a mock implementation of provider.Adapter
type Adapter struct {
	mock.Mock
}

// ID returns the provider this adapter speaks to
func (m *Adapter) ID() domain.ProviderID {
	args := m.Called()
	return args.Get(0).(domain.ProviderID)
}

// Shorten submits url to the provider and returns the short URL
func (m *Adapter) Shorten(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// HealthCheck probes the provider endpoint
func (m *Adapter) HealthCheck(ctx context.Context) domain.ProviderHealth {
	args := m.Called(ctx)
	return args.Get(0).(domain.ProviderHealth)
}
