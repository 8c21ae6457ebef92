package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := NewTokenBucket(5, 1)

	for i := 0; i < 5; i++ {
		if !bucket.Allow() {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if bucket.Allow() {
		t.Error("6th request should be denied")
	}

	time.Sleep(1100 * time.Millisecond)

	if !bucket.Allow() {
		t.Error("request after refill should be allowed")
	}
}

func TestTokenBucket_AllowN(t *testing.T) {
	bucket := NewTokenBucket(10, 2)

	if !bucket.AllowN(10) {
		t.Error("AllowN(10) should be allowed")
	}

	if bucket.AllowN(1) {
		t.Error("AllowN(1) should be denied after consuming all tokens")
	}

	time.Sleep(1100 * time.Millisecond)

	if !bucket.AllowN(2) {
		t.Error("AllowN(2) should be allowed after refill")
	}
}

func TestLimiter_SeparateKeys(t *testing.T) {
	limiter := NewLimiter(3, 1)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("user1") {
			t.Errorf("request %d for user1 should be allowed", i+1)
		}
	}

	if limiter.Allow("user1") {
		t.Error("4th request for user1 should be denied")
	}

	if !limiter.Allow("user2") {
		t.Error("first request for user2 should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	limiter := NewLimiter(2, 1)

	limiter.Allow("test")
	limiter.Allow("test")

	if limiter.Allow("test") {
		t.Error("request should be denied")
	}

	limiter.Reset("test")

	if !limiter.Allow("test") {
		t.Error("request should be allowed after reset")
	}
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewLimiter(100, 10)
	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 10; j++ {
				limiter.Allow("concurrent")
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if got := limiter.ActiveBuckets(); got != 1 {
		t.Errorf("expected 1 active bucket, got %d", got)
	}
}

func TestRedisLimiter_KeyPrefixVerbatim(t *testing.T) {
	// Prefixes are concatenated as-is, so they must carry their delimiter.
	if got := NewRedisLimiter(nil, "").keyPrefix; got != "ratelimit:" {
		t.Errorf("default prefix = %q, want %q", got, "ratelimit:")
	}
	if got := NewRedisLimiter(nil, "arena:").keyPrefix; got != "arena:" {
		t.Errorf("custom prefix = %q, want it kept verbatim", got)
	}
}

func BenchmarkLimiter_Allow(b *testing.B) {
	limiter := NewLimiter(1000000, 100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("bench")
	}
}
