package validation

import (
	"sync"
	"time"
)

// RateLimiter throttles inbound control messages per client with a
// token bucket. A client streaming inputs at the normal rate never
// hits the limit; a flooding client runs out of tokens and gets its
// messages rejected until the bucket refills.
type RateLimiter struct {
	maxMessages int
	window      time.Duration
	buckets     map[string]*tokenBucket
	mu          sync.RWMutex
	cleanupTick *time.Ticker
	done        chan struct{}
}

// tokenBucket holds the remaining budget for one client.
type tokenBucket struct {
	tokens     int
	lastRefill time.Time
	maxTokens  int
	window     time.Duration
	mu         sync.Mutex
}

// NewRateLimiter creates a limiter allowing maxMessages per window for
// each client ID.
func NewRateLimiter(maxMessages int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		maxMessages: maxMessages,
		window:      window,
		buckets:     make(map[string]*tokenBucket),
		done:        make(chan struct{}),
	}

	// Idle buckets are reaped so disconnected clients don't pile up
	rl.cleanupTick = time.NewTicker(window)
	go rl.cleanupLoop()

	return rl
}

// Allow reports whether the client may send another message, spending
// one token if so.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.RLock()
	bucket, exists := rl.buckets[clientID]
	rl.mu.RUnlock()

	if !exists {
		bucket = &tokenBucket{
			tokens:     rl.maxMessages,
			lastRefill: time.Now(),
			maxTokens:  rl.maxMessages,
			window:     rl.window,
		}
		rl.mu.Lock()
		rl.buckets[clientID] = bucket
		rl.mu.Unlock()
	}

	return bucket.take()
}

// take refills tokens proportionally to the time elapsed since the
// last refill, then spends one if available.
func (tb *tokenBucket) take() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()

	elapsed := now.Sub(tb.lastRefill)
	if elapsed > 0 && tb.tokens < tb.maxTokens {
		windowsPassed := float64(elapsed) / float64(tb.window)
		refill := int(float64(tb.maxTokens) * windowsPassed)

		if refill > 0 {
			tb.tokens += refill
			if tb.tokens > tb.maxTokens {
				tb.tokens = tb.maxTokens
			}
			tb.lastRefill = now
		}
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

func (rl *RateLimiter) cleanupLoop() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.removeIdleBuckets()
		case <-rl.done:
			return
		}
	}
}

// removeIdleBuckets drops clients with no traffic for two full
// windows.
func (rl *RateLimiter) removeIdleBuckets() {
	cutoff := time.Now().Add(-2 * rl.window)

	rl.mu.Lock()
	for clientID, bucket := range rl.buckets {
		bucket.mu.Lock()
		if bucket.lastRefill.Before(cutoff) {
			delete(rl.buckets, clientID)
		}
		bucket.mu.Unlock()
	}
	rl.mu.Unlock()
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
