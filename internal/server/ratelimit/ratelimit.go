// Package ratelimit implements fixed-window counters keyed by arbitrary strings
// (client IP, email). Counters live either in process memory or in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store хранит счётчики окон
type Store interface {
	// Incr increments key and returns the new value. The first increment
	// of a window sets the key to expire after window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// Reset drops key.
	Reset(ctx context.Context, key string) error
}

// Limiter allows at most limit events per key in each window.
type Limiter struct {
	store  Store
	prefix string
	limit  int64
	window time.Duration
}

// New creates a limiter. prefix namespaces its keys inside a shared store.
func New(store Store, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

func (l *Limiter) key(key string) string {
	return l.prefix + ":" + key
}

// Limit returns the number of events allowed per window.
func (l *Limiter) Limit() int {
	return int(l.limit)
}

// Window returns the window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Allow records one event and reports whether it fits in the window.
// Counting and comparing happen in one Incr, so concurrent callers never
// get more than limit events through.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Incr(ctx, l.key(key), l.window)
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	return count <= l.limit, nil
}

// Reset clears the counter of key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.store.Reset(ctx, l.key(key)); err != nil {
		return fmt.Errorf("ratelimit reset: %w", err)
	}
	return nil
}
