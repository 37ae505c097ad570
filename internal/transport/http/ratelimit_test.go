package http

import (
	"testing"
	"time"
)

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(0)
	for i := 0; i < 100; i++ {
		if !limiter.allow() {
			t.Fatal("disabled limiter must always allow")
		}
	}

	var nilLimiter *rateLimiter
	if !nilLimiter.allow() {
		t.Fatal("nil limiter must always allow")
	}
}

func TestRateLimiterCapsAndResets(t *testing.T) {
	limiter := &rateLimiter{limit: 2, reset: time.NewTicker(10 * time.Millisecond)}
	stop := make(chan struct{})
	defer close(stop)
	limiter.startReset(stop)

	if !limiter.allow() || !limiter.allow() {
		t.Fatal("frames within the limit should be allowed")
	}
	if limiter.allow() {
		t.Fatal("over-limit frame should be denied")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if limiter.allow() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("allowance never restored after a reset tick")
}

// The reset goroutine clears the counter while the read loop increments it;
// both sides must stay race-free under concurrent use.
func TestRateLimiterResetConcurrentWithAllow(t *testing.T) {
	limiter := &rateLimiter{limit: 2, reset: time.NewTicker(time.Millisecond)}
	stop := make(chan struct{})
	defer close(stop)
	limiter.startReset(stop)

	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		limiter.allow()
	}
}
