// Package rate tracks per-model cooldowns after rate-limit responses. One
// Limiter is shared by every instance of a backend type, so a 429 seen by
// one instance keeps the model off the candidate list for all of them.
package rate

import (
	"sync"
	"time"
)

// DefaultWindow is how long a rate-limited model stays off the candidate
// list.
const DefaultWindow = 60 * time.Second

// Limiter is a mutex-guarded cooldown table for one backend type.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	until  map[string]time.Time

	// now is swapped in tests.
	now func() time.Time
}

// NewLimiter returns a limiter with the given cooldown window. A zero
// window means DefaultWindow.
func NewLimiter(window time.Duration) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		window: window,
		until:  map[string]time.Time{},
		now:    time.Now,
	}
}

// MarkLimited puts the model on cooldown for the full window, refreshing
// any earlier entry.
func (l *Limiter) MarkLimited(model string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.until[model] = l.now().Add(l.window)
}

// Limited reports whether the model is still cooling down. Expired entries
// are removed as a side effect of the check.
func (l *Limiter) Limited(model string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limited(model)
}

func (l *Limiter) limited(model string) bool {
	expiry, ok := l.until[model]
	if !ok {
		return false
	}
	if !l.now().Before(expiry) {
		delete(l.until, model)
		return false
	}
	return true
}

// Candidates orders the models to try for a request. A preferred model
// found in the chain rotates the chain so it comes first; a custom model is
// tried first and then the whole chain. Models still cooling down are
// filtered out, removing expired entries on the way.
func (l *Limiter) Candidates(preferred string, chain []string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, model := range order(preferred, chain) {
		if !l.limited(model) {
			out = append(out, model)
		}
	}
	return out
}

// Peek returns the same ordering as Candidates without touching the table:
// no expired entries are removed. Meant for UI feedback.
func (l *Limiter) Peek(preferred string, chain []string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	var out []string
	for _, model := range order(preferred, chain) {
		if expiry, ok := l.until[model]; ok && now.Before(expiry) {
			continue
		}
		out = append(out, model)
	}
	return out
}

// Wait returns the minimum remaining cooldown across all entries, rounded
// up and never below one second, so callers can show "retry in Ns".
func (l *Limiter) Wait() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	var min time.Duration
	for _, expiry := range l.until {
		if remaining := expiry.Sub(now); remaining > 0 && (min == 0 || remaining < min) {
			min = remaining
		}
	}
	if min <= time.Second {
		return time.Second
	}
	// Round up so the advertised wait is never shorter than the cooldown.
	return (min + time.Second - 1).Truncate(time.Second)
}

func order(preferred string, chain []string) []string {
	if preferred == "" {
		return chain
	}
	for i, model := range chain {
		if model != preferred {
			continue
		}
		out := make([]string, 0, len(chain))
		out = append(out, chain[i:]...)
		out = append(out, chain[:i]...)
		return out
	}
	out := make([]string, 0, len(chain)+1)
	out = append(out, preferred)
	out = append(out, chain...)
	return out
}
