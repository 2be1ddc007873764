package ratelimit

import (
	"sync"
	"time"
)

// Config holds outbound rate limiting configuration
type Config struct {
	RequestsPerSecond int `json:"requestsPerSecond"`
	MaxRetries        int `json:"maxRetries"`
	InitialBackoffMs  int `json:"initialBackoffMs"`
	MaxBackoffMs      int `json:"maxBackoffMs"`
}

// DefaultConfig returns the default rate limit configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		MaxRetries:        2,
		InitialBackoffMs:  100,
		MaxBackoffMs:      10000,
	}
}

// RateLimiter spaces outbound requests to respect a requests-per-second cap
type RateLimiter struct {
	mu          sync.Mutex
	config      Config
	lastRequest time.Time
}

// NewRateLimiter creates a new rate limiter with the given config
func NewRateLimiter(config Config) *RateLimiter {
	return &RateLimiter{config: config}
}

// Throttle blocks until the next request is allowed to go out
func (r *RateLimiter) Throttle() error {
	if r.config.RequestsPerSecond <= 0 {
		return nil
	}
	r.mu.Lock()
	minInterval := time.Second / time.Duration(r.config.RequestsPerSecond)
	elapsed := time.Since(r.lastRequest)
	wait := minInterval - elapsed
	if wait > 0 {
		r.lastRequest = r.lastRequest.Add(minInterval)
		r.mu.Unlock()
		time.Sleep(wait)
		return nil
	}
	r.lastRequest = time.Now()
	r.mu.Unlock()
	return nil
}
