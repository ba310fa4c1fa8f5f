// Package ratelimit throttles credential-guessing traffic against the
// login endpoint. Counters live in process memory; a restart clears them.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limit is an attempt budget over a rolling window.
type Limit struct {
	Attempts int
	Window   time.Duration
}

// Default budgets: per-IP guards against spraying, per-email against a
// targeted account.
var (
	DefaultPerIP    = Limit{Attempts: 10, Window: time.Minute}
	DefaultPerEmail = Limit{Attempts: 5, Window: 5 * time.Minute}
)

type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter counts attempts per key within a rolling window. Safe for
// concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	lim     Limit
}

func New(lim Limit) *Limiter {
	if lim.Attempts < 1 {
		lim.Attempts = 1
	}
	if lim.Window <= 0 {
		lim.Window = time.Minute
	}
	l := &Limiter{
		buckets: make(map[string]*bucket),
		lim:     lim,
	}
	go l.sweep()
	return l
}

// Allow records an attempt for key and reports whether it fits the budget.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b := l.buckets[key]
	if b == nil || now.After(b.resetAt) {
		l.buckets[key] = &bucket{count: 1, resetAt: now.Add(l.lim.Window)}
		return true
	}
	if b.count >= l.lim.Attempts {
		return false
	}
	b.count++
	return true
}

// Remaining reports how many attempts key has left in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buckets[key]
	if b == nil || time.Now().After(b.resetAt) {
		return l.lim.Attempts
	}
	if b.count >= l.lim.Attempts {
		return 0
	}
	return l.lim.Attempts - b.count
}

// Reset forgets key entirely.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// sweep drops expired buckets so abandoned keys do not accumulate.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(2 * l.lim.Window)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP resolves the originating address of a request, honoring the
// X-Forwarded-For and X-Real-IP headers set by the reverse proxy before
// falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First entry is the client; the rest are proxies.
		if ip := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter combines the IP and email dimensions: the IP budget catches
// spraying across many accounts, the email budget catches many sources
// converging on one account.
type LoginLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

func NewLoginLimiter(perIP, perEmail Limit) *LoginLimiter {
	return &LoginLimiter{
		byIP:    New(perIP),
		byEmail: New(perEmail),
	}
}

// Check records an attempt and reports whether it may proceed. The reason
// string is safe to show to the caller.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := emailKey(email); key != "" {
		if !ll.byEmail.Allow(key) {
			return false, "Too many login attempts for this account. Please wait a few minutes."
		}
	}
	return true, ""
}

// ResetEmail clears the budget for an account after a successful login.
func (ll *LoginLimiter) ResetEmail(email string) {
	if key := emailKey(email); key != "" {
		ll.byEmail.Reset(key)
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
