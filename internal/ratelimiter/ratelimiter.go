package ratelimiter

import "time"

// Limiter decides whether a client identified by key may proceed. When it
// may not, the duration says how long until the window resets.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}
