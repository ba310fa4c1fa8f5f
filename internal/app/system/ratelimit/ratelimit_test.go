package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := New(Limit{Attempts: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("attempt over the budget should be blocked")
	}
	if !l.Allow("other") {
		t.Error("independent keys should not share a bucket")
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(Limit{Attempts: 1, Window: time.Minute})

	l.Allow("key")
	if l.Allow("key") {
		t.Fatal("second attempt should be blocked")
	}
	l.Reset("key")
	if !l.Allow("key") {
		t.Error("reset should clear the bucket")
	}
}

func TestLimiterRemaining(t *testing.T) {
	l := New(Limit{Attempts: 5, Window: time.Minute})

	if got := l.Remaining("key"); got != 5 {
		t.Errorf("fresh key remaining = %d, want 5", got)
	}
	l.Allow("key")
	l.Allow("key")
	if got := l.Remaining("key"); got != 3 {
		t.Errorf("remaining = %d, want 3", got)
	}
}

func TestNewNormalizesDegenerateLimits(t *testing.T) {
	l := New(Limit{})
	if !l.Allow("key") {
		t.Error("a zero-valued limit should still admit one attempt")
	}
	if l.Allow("key") {
		t.Error("a zero-valued limit should floor at one attempt")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr with port", "203.0.113.7:4312", "", "", "203.0.113.7"},
		{"x-forwarded-for wins", "10.0.0.1:80", "198.51.100.2, 10.0.0.1", "", "198.51.100.2"},
		{"x-real-ip fallback", "10.0.0.1:80", "", "198.51.100.9", "198.51.100.9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				r.Header.Set("X-Real-IP", tc.xri)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoginLimiterBlocksRepeatedEmail(t *testing.T) {
	ll := NewLoginLimiter(
		Limit{Attempts: 100, Window: time.Minute},
		Limit{Attempts: 2, Window: time.Minute},
	)

	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "203.0.113.7:4312"

	for i := 0; i < 2; i++ {
		if allowed, _ := ll.Check(r, "user@example.com"); !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if allowed, reason := ll.Check(r, "user@example.com"); allowed {
		t.Error("third attempt for the same email should be blocked")
	} else if reason == "" {
		t.Error("blocked attempt should carry a reason")
	}

	// Case and whitespace in the email map to the same key.
	if allowed, _ := ll.Check(r, "  USER@example.com "); allowed {
		t.Error("normalized email should share the bucket")
	}

	ll.ResetEmail("user@example.com")
	if allowed, _ := ll.Check(r, "user@example.com"); !allowed {
		t.Error("reset should clear the email bucket")
	}
}

func TestLoginLimiterBlocksByIP(t *testing.T) {
	ll := NewLoginLimiter(
		Limit{Attempts: 2, Window: time.Minute},
		Limit{Attempts: 100, Window: time.Minute},
	)

	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "203.0.113.7:4312"

	// Different emails, same source: the IP budget still applies.
	ll.Check(r, "a@example.com")
	ll.Check(r, "b@example.com")
	if allowed, _ := ll.Check(r, "c@example.com"); allowed {
		t.Error("third attempt from the same IP should be blocked")
	}

	other := httptest.NewRequest("POST", "/login", nil)
	other.RemoteAddr = "198.51.100.9:1000"
	if allowed, _ := ll.Check(other, "c@example.com"); !allowed {
		t.Error("a different IP should have its own budget")
	}
}
