// Package ratelimit implements per-client sliding-window request limiting.
// Each limiter keeps the timestamps of recent attempts per key (client IP)
// and rejects attempts once the window is full.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Rule is one limiting policy: at most Limit attempts per Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Limiter tracks attempts per key under a single Rule. All methods are safe
// for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	rule    Rule
	clients map[string][]time.Time
	now     func() time.Time
}

func New(rule Rule) *Limiter {
	return &Limiter{
		rule:    rule,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records one attempt for key and reports whether it fits the window.
// When denied, the second return value is how long the client should wait
// before retrying.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)

	if len(recent) >= l.rule.Limit {
		return false, l.retryAfter(recent, now)
	}

	l.clients[key] = append(recent, now)
	return true, 0
}

// Check reports whether key has room in the window without recording an
// attempt. Tiers that count only failures call Check up front and Record
// after the outcome is known.
func (l *Limiter) Check(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)

	if len(recent) >= l.rule.Limit {
		return false, l.retryAfter(recent, now)
	}
	return true, 0
}

// Record registers one attempt for key unconditionally.
func (l *Limiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.clients[key] = append(l.prune(key, now), now)
}

// prune drops timestamps that fell out of the window. Caller holds the lock.
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.rule.Window)
	recent := l.clients[key][:0]
	for _, t := range l.clients[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		delete(l.clients, key)
		return nil
	}
	l.clients[key] = recent
	return recent
}

func (l *Limiter) retryAfter(recent []time.Time, now time.Time) time.Duration {
	oldest := recent[len(recent)-l.rule.Limit]
	wait := oldest.Add(l.rule.Window).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait
}

// Cleanup periodically drops idle clients until the context is cancelled.
// Run it in a goroutine next to the HTTP server.
func (l *Limiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key := range l.clients {
				l.prune(key, now)
			}
			l.mu.Unlock()
		}
	}
}
