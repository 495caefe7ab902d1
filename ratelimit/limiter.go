// Package ratelimit throttles repeated attempts of an action, such as
// signing in, per identifier.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute

	pruneThreshold = 1024
)

type Options struct {
	MaxAttempts int
	Window      time.Duration
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Limiter is an in-memory fixed-window counter. The window of a key opens
// on its first attempt and the count resets once the window has elapsed.
type Limiter struct {
	mu      sync.Mutex
	opts    Options
	entries map[string]*entry
}

type entry struct {
	count int
	first time.Time
}

func New(opts Options) *Limiter {
	return &Limiter{
		opts:    opts.withDefaults(),
		entries: make(map[string]*entry),
	}
}

// Allow records an attempt for key and reports whether it is within the
// limit. Rejected attempts are not counted.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.opts.Now()
	if len(l.entries) > pruneThreshold {
		l.prune(now)
	}

	e, ok := l.entries[key]
	if !ok || l.expired(e, now) {
		l.entries[key] = &entry{count: 1, first: now}
		return true
	}
	if e.count >= l.opts.MaxAttempts {
		return false
	}
	e.count++
	return true
}

// RetryAfter returns how long key has to wait before its window resets, or
// zero when it is not currently blocked.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	now := l.opts.Now()
	if !ok || l.expired(e, now) || e.count < l.opts.MaxAttempts {
		return 0
	}
	return e.first.Add(l.opts.Window).Sub(now)
}

// Reset forgets key immediately.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
}

func (l *Limiter) expired(e *entry, now time.Time) bool {
	return !now.Before(e.first.Add(l.opts.Window))
}

func (l *Limiter) prune(now time.Time) {
	for key, e := range l.entries {
		if l.expired(e, now) {
			delete(l.entries, key)
		}
	}
}
