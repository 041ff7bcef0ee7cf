package mocks

import (
	"github.com/stretchr/testify/mock"
)

// LinkCache is a mock implementation of cache.LinkCache
type LinkCache struct {
	mock.Mock
}

// Store computes the token for url and inserts the mapping
func (m *LinkCache) Store(url string) string {
	args := m.Called(url)
	return args.String(0)
}

// Resolve returns the original URL for a token
func (m *LinkCache) Resolve(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// Len returns the number of cached mappings
func (m *LinkCache) Len() int {
	args := m.Called()
	return args.Int(0)
}
