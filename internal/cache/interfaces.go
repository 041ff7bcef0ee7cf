package cache

// LinkCache maps short deterministic tokens to original URLs. Transport
// callback payloads have a byte-length ceiling that raw URLs routinely
// exceed, so callers round-trip the fixed-width token instead.
type LinkCache interface {
	// Store computes the token for url, inserts the mapping if absent, and
	// returns the token. Storing the same URL twice returns the same token.
	Store(url string) string

	// Resolve returns the original URL for a token, or domain.ErrCacheMiss
	// when the token is unknown. A miss is a normal outcome for callers, not
	// a fault.
	Resolve(token string) (string, error)

	// Len returns the number of cached mappings.
	Len() int
}
