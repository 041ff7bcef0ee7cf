package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmux/linkmux/internal/domain"
)

func TestCache_StoreIsIdempotent(t *testing.T) {
	c := New()

	url := "https://example.com/very/long/path?x=1"
	token1 := c.Store(url)
	token2 := c.Store(url)

	assert.Equal(t, token1, token2)
	assert.Len(t, token1, 8)
	assert.Equal(t, 1, c.Len())

	resolved, err := c.Resolve(token1)
	require.NoError(t, err)
	assert.Equal(t, url, resolved)
}

func TestCache_TokenIsDeterministic(t *testing.T) {
	url := "https://example.com"
	assert.Equal(t, Token(url), Token(url))
	assert.NotEqual(t, Token(url), Token("https://example.org"))
}

func TestCache_ResolveUnknownToken(t *testing.T) {
	c := New()

	tests := []struct {
		name  string
		token string
	}{
		{name: "never issued", token: "deadbeef"},
		{name: "empty token", token: ""},
		{name: "malformed token", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := c.Resolve(tt.token)
			assert.ErrorIs(t, err, domain.ErrCacheMiss)
			assert.Empty(t, url)
		})
	}
}

func TestCache_ConcurrentStores(t *testing.T) {
	c := New()

	const goroutines = 20
	const urlsPerGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < urlsPerGoroutine; i++ {
				c.Store(fmt.Sprintf("https://example.com/g%d/i%d", g, i))
			}
		}(g)
	}
	wg.Wait()

	// Every stored URL must be resolvable afterward.
	for g := 0; g < goroutines; g++ {
		for i := 0; i < urlsPerGoroutine; i++ {
			url := fmt.Sprintf("https://example.com/g%d/i%d", g, i)
			resolved, err := c.Resolve(Token(url))
			require.NoError(t, err)
			assert.Equal(t, url, resolved)
		}
	}
}

func TestCache_ConcurrentReadersAndWriters(t *testing.T) {
	c := New()
	url := "https://example.com/shared"
	token := c.Store(url)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(2)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Store(fmt.Sprintf("https://example.com/w%d/i%d", g, i))
			}
		}(g)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				resolved, err := c.Resolve(token)
				assert.NoError(t, err)
				assert.Equal(t, url, resolved)
			}
		}()
	}
	wg.Wait()
}
