package guard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// IdempotencyGuard deduplicates admin requests by Idempotency-Key header.
// Keys are forgotten after ttl.
type IdempotencyGuard struct {
	mu    sync.Mutex
	clock clockwork.Clock
	ttl   time.Duration
	seen  map[string]time.Time
}

// NewIdempotencyGuard creates a new in-memory idempotency guard.
func NewIdempotencyGuard(clock clockwork.Clock, ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{
		clock: clock,
		ttl:   ttl,
		seen:  make(map[string]time.Time),
	}
}

// Check returns whether the given key has already been processed.
func (ig *IdempotencyGuard) Check(_ context.Context, key string) Result {
	if key == "" {
		return Result{Allowed: true}
	}

	ig.mu.Lock()
	defer ig.mu.Unlock()

	now := ig.clock.Now()
	for k, at := range ig.seen {
		if now.Sub(at) > ig.ttl {
			delete(ig.seen, k)
		}
	}

	if _, ok := ig.seen[key]; ok {
		return Result{
			Allowed: false,
			Reason:  "duplicate request: idempotency key already processed",
			Guard:   "idempotency",
		}
	}

	ig.seen[key] = now
	return Result{Allowed: true}
}

// Remove deletes a key from the seen set so a failed request can be retried.
func (ig *IdempotencyGuard) Remove(key string) {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	delete(ig.seen, key)
}
