// Package validator provides syntactic validation of candidate URLs before
// any provider is contacted.
package validator

import (
	"regexp"
)

// urlPattern accepts absolute http/https URLs whose host is a dotted domain
// with a plausible top-level label, localhost, or a dotted-quad IPv4 address,
// with an optional port, path, and query.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// IsValid reports whether candidate is a well-formed absolute HTTP(S) URL.
// It has no side effects and never contacts the network.
func IsValid(candidate string) bool {
	return urlPattern.MatchString(candidate)
}
