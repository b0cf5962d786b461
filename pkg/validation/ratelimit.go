package validation

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	DefaultRateLimitWindow      = 15 * time.Minute
	DefaultRateLimitMaxAttempts = 5
)

// RateLimitStatus describes the limiter's view of one identifier.
type RateLimitStatus struct {
	Allowed        bool
	Remaining      int
	RetryAfter     time.Duration
	LockoutMinutes int
}

// Result converts the status into a validation result carrying the lockout
// message when attempts are exhausted.
func (s RateLimitStatus) Result() Result {
	if s.Allowed {
		return NewResult()
	}
	unit := "minutes"
	if s.LockoutMinutes == 1 {
		unit = "minute"
	}
	return invalid(fmt.Sprintf("Too many attempts. Please try again in %d %s", s.LockoutMinutes, unit))
}

// RateLimiterOption customises a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithWindow overrides the sliding window length.
func WithWindow(window time.Duration) RateLimiterOption {
	return func(l *RateLimiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// WithMaxAttempts overrides the attempt budget per window.
func WithMaxAttempts(max int) RateLimiterOption {
	return func(l *RateLimiter) {
		if max > 0 {
			l.maxAttempts = max
		}
	}
}

// WithClock injects the time source, mainly for tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// RateLimiter counts attempts per identifier inside a sliding window. State is
// process local and expired entries are pruned lazily on access. It is a UX
// hint only; the backend enforces the real limit.
type RateLimiter struct {
	mu          sync.Mutex
	window      time.Duration
	maxAttempts int
	now         func() time.Time
	attempts    map[string][]time.Time
}

// NewRateLimiter builds a limiter with a 15 minute window and 5 attempts
// unless overridden.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		window:      DefaultRateLimitWindow,
		maxAttempts: DefaultRateLimitMaxAttempts,
		now:         time.Now,
		attempts:    make(map[string][]time.Time),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Allow records an attempt for id when budget remains and reports the status
// after recording. Exhausted identifiers are not charged further.
func (l *RateLimiter) Allow(id string) RateLimitStatus {
	key := normalizeLimiterKey(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	live := l.prune(key, now)
	if len(live) >= l.maxAttempts {
		return l.denied(live, now)
	}
	live = append(live, now)
	l.attempts[key] = live
	return RateLimitStatus{Allowed: true, Remaining: l.maxAttempts - len(live)}
}

// Status reports the current state for id without recording an attempt.
func (l *RateLimiter) Status(id string) RateLimitStatus {
	key := normalizeLimiterKey(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	live := l.prune(key, now)
	if len(live) >= l.maxAttempts {
		return l.denied(live, now)
	}
	return RateLimitStatus{Allowed: true, Remaining: l.maxAttempts - len(live)}
}

// Reset forgets every attempt recorded for id.
func (l *RateLimiter) Reset(id string) {
	key := normalizeLimiterKey(id)
	l.mu.Lock()
	delete(l.attempts, key)
	l.mu.Unlock()
}

func (l *RateLimiter) prune(key string, now time.Time) []time.Time {
	stamps := l.attempts[key]
	cutoff := now.Add(-l.window)
	idx := 0
	for idx < len(stamps) && !stamps[idx].After(cutoff) {
		idx++
	}
	if idx == len(stamps) {
		delete(l.attempts, key)
		return nil
	}
	if idx > 0 {
		stamps = append([]time.Time(nil), stamps[idx:]...)
		l.attempts[key] = stamps
	}
	return stamps
}

func (l *RateLimiter) denied(live []time.Time, now time.Time) RateLimitStatus {
	retry := live[0].Add(l.window).Sub(now)
	if retry < 0 {
		retry = 0
	}
	minutes := int((retry + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return RateLimitStatus{
		Allowed:        false,
		Remaining:      0,
		RetryAfter:     retry,
		LockoutMinutes: minutes,
	}
}

func normalizeLimiterKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
