package extractor

import (
	"math/rand"

	"NewsScanner/internal/ports"
)

// Browser user agents rotated across extraction attempts. Some publishers
// block anything that self-identifies as a scanner.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:109.0) Gecko/20100101 Firefox/119.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// Rotator picks a user agent uniformly at random from a fixed pool.
type Rotator struct {
	pool []string
}

var _ ports.UserAgentSource = (*Rotator)(nil)

// NewRotator builds a rotator over the given pool, falling back to the
// default browser pool when empty.
func NewRotator(pool []string) *Rotator {
	if len(pool) == 0 {
		pool = defaultUserAgents
	}
	return &Rotator{pool: pool}
}

// Pick returns a random user agent from the pool.
func (r *Rotator) Pick() string {
	return r.pool[rand.Intn(len(r.pool))]
}

// Summary shortens a user agent string for log lines.
func Summary(userAgent string) string {
	const maxLen = 50
	if len(userAgent) <= maxLen {
		return userAgent
	}
	return userAgent[:maxLen] + "..."
}
