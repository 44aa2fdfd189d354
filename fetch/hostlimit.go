package fetch

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// hostLimiter enforces a minimum inter-request delay per destination host.
// Concurrent requests to the same host serialize through one token bucket;
// different hosts never contend. Each wait adds a random jitter before
// queueing on the bucket so the effective interval falls inside
// [minDelay, maxDelay]; the token grant is always the last gate, keeping
// concurrent callers' sends at least minDelay apart.
//
// Entries unused for 1 hour are evicted by a background goroutine that runs
// every 5 minutes, preventing unbounded memory growth.
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	minDelay time.Duration
	maxDelay time.Duration
	done     chan struct{}
}

func newHostLimiter(minDelay, maxDelay time.Duration) *hostLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	hl := &hostLimiter{
		limiters: make(map[string]*limiterEntry),
		minDelay: minDelay,
		maxDelay: maxDelay,
		done:     make(chan struct{}),
	}
	go hl.cleanupLoop()
	return hl
}

func (hl *hostLimiter) get(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	entry, ok := hl.limiters[host]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(hl.minDelay), 1),
		}
		hl.limiters[host] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// wait blocks until the host's politeness interval has elapsed, or the
// context is cancelled. The jitter sleep happens before the token grant;
// sleeping after it would let concurrent callers send closer together
// than minDelay.
func (hl *hostLimiter) wait(ctx context.Context, host string) error {
	if jitterRange := hl.maxDelay - hl.minDelay; jitterRange > 0 {
		jitter := time.Duration(rand.Int63n(int64(jitterRange)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jitter):
		}
	}

	return hl.get(host).Wait(ctx)
}

// stop terminates the background cleanup goroutine.
func (hl *hostLimiter) stop() {
	close(hl.done)
}

// cleanupLoop evicts limiters not seen in the last hour.
func (hl *hostLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-hl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-1 * time.Hour)
			hl.mu.Lock()
			for host, entry := range hl.limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(hl.limiters, host)
				}
			}
			hl.mu.Unlock()
		}
	}
}
