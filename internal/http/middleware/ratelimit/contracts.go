// Package ratelimit throttles requests per client key.
package ratelimit

// Limiter answers whether one more request for key is within limits.
type Limiter interface {
	Allow(key string) bool
}
