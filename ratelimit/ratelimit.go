// Package ratelimit bounds the query rate toward each nameserver
// independently, so a congested resolver never throttles queries headed
// elsewhere.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

const defaultQPS = 30

// Pool holds one token bucket per nameserver address. Buckets are created
// lazily on first use and live for the life of the process; all concurrent
// callers targeting the same address share one bucket. Grants toward one
// address never exceed the configured rate within any one-second window.
type Pool struct {
	qps      int
	mutex    sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPool creates a limiter pool granting qps tokens per second per
// address.
func NewPool(qps int) *Pool {
	if qps <= 0 {
		qps = defaultQPS
	}
	return &Pool{
		qps:      qps,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiter returns the bucket for an address, creating it on first use.
func (p *Pool) limiter(address string) *rate.Limiter {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	l, ok := p.limiters[address]
	if !ok {
		// Burst of one: consecutive grants for an address are spaced at
		// least 1/qps apart, so no sliding one-second window ever sees
		// more than qps grants. A larger burst would let up to burst+qps
		// queries hit a resolver inside a single second.
		l = rate.NewLimiter(rate.Limit(p.qps), 1)
		p.limiters[address] = l
	}
	return l
}

// Acquire blocks until a token is available for the given address, then
// consumes it. It only fails when the context is cancelled; a token
// consumed for a query that is later abandoned is not refunded.
func (p *Pool) Acquire(ctx context.Context, address string) error {
	return p.limiter(address).Wait(ctx)
}

// Allow consumes a token for the address if one is immediately available.
func (p *Pool) Allow(address string) bool {
	return p.limiter(address).Allow()
}

// QPS returns the configured per-address rate.
func (p *Pool) QPS() int {
	return p.qps
}

// Tracked returns how many distinct addresses have buckets.
func (p *Pool) Tracked() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.limiters)
}
