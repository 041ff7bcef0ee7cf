// Package memory implements cache.LinkCache with an in-memory map guarded by
// a single RWMutex. Entries live for the process lifetime; there is no
// eviction.
package memory

import (
	"crypto/md5"
	"encoding/hex"
	"sync"

	"github.com/linkmux/linkmux/internal/cache"
	"github.com/linkmux/linkmux/internal/domain"
)

// tokenLength is the number of hex characters kept from the URL digest.
// Two distinct URLs can truncate to the same token; the last writer wins
// silently, which is an accepted limitation of the token scheme.
const tokenLength = 8

// Cache implements cache.LinkCache using in-memory storage.
type Cache struct {
	mu   sync.RWMutex
	data map[string]string
}

// New creates a new in-memory link cache.
func New() *Cache {
	return &Cache{
		data: make(map[string]string),
	}
}

// Token derives the fixed-width cache token for a URL. The same URL always
// yields the same token.
func Token(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:tokenLength]
}

// Store inserts the token mapping for url and returns the token. The
// operation is idempotent.
func (c *Cache) Store(url string) string {
	token := Token(url)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[token] = url
	return token
}

// Resolve returns the original URL for a token, or domain.ErrCacheMiss when
// the token is unknown.
func (c *Cache) Resolve(token string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	url, ok := c.data[token]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return url, nil
}

// Len returns the number of cached mappings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Ensure Cache implements the interface
var _ cache.LinkCache = (*Cache)(nil)
