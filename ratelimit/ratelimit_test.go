package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowNeverExceedsRate(t *testing.T) {
	// Hammer one address from several goroutines and count the grants
	// that land inside the first second. The cap must hold no matter how
	// much demand there is.
	pool := NewPool(30)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		grants int
		wg     sync.WaitGroup
	)
	start := time.Now()
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if pool.Acquire(ctx, "192.0.2.1") != nil {
					return
				}
				elapsed := time.Since(start)
				mu.Lock()
				if elapsed < time.Second {
					grants++
				}
				mu.Unlock()
				if elapsed >= time.Second {
					return
				}
			}
		}()
	}
	time.Sleep(1100 * time.Millisecond)
	cancel()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.LessOrEqual(t, grants, 30)
	require.Greater(t, grants, 20) // the limiter throttles, it does not starve
}

func TestSustainedRateIsCapped(t *testing.T) {
	pool := NewPool(20)
	ctx := context.Background()

	// 20 grants at 20/s: the first is immediate, the rest refill at 50ms
	// apart, so the whole run needs roughly a second.
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.Acquire(ctx, "192.0.2.1")
		}()
	}
	wg.Wait()
	require.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestAddressesAreIndependent(t *testing.T) {
	pool := NewPool(10)
	ctx := context.Background()

	// Put one address into refill debt; a fresh address must still grant
	// immediately.
	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Acquire(ctx, "192.0.2.1"))
	}
	start := time.Now()
	require.NoError(t, pool.Acquire(ctx, "192.0.2.2"))
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestAcquireCancellation(t *testing.T) {
	pool := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, pool.Acquire(ctx, "192.0.2.1")) // consume the bucket

	done := make(chan error, 1)
	go func() {
		done <- pool.Acquire(ctx, "192.0.2.1")
	}()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("cancelled Acquire did not return")
	}
}

func TestConcurrentAcquireExactOnce(t *testing.T) {
	// Many goroutines against one address must each get exactly one
	// grant; the count of completed acquisitions equals the count
	// requested, with no lost or duplicated tokens.
	pool := NewPool(1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	granted := make(chan struct{}, 500)
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pool.Acquire(ctx, "192.0.2.1") == nil {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	count := 0
	for range granted {
		count++
	}
	require.Equal(t, 500, count)
}

func TestLazyBuckets(t *testing.T) {
	pool := NewPool(0) // invalid rate falls back to the default
	require.Equal(t, defaultQPS, pool.QPS())
	require.Equal(t, 0, pool.Tracked())

	pool.Allow("192.0.2.1")
	pool.Allow("192.0.2.1")
	pool.Allow("192.0.2.2")
	require.Equal(t, 2, pool.Tracked())
}
