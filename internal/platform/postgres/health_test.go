package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (p *fakePinger) PingContext(ctx context.Context) error {
	p.calls.Add(1)
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func TestHealthChecker_Healthy(t *testing.T) {
	p := &fakePinger{}
	h := postgres.NewHealthChecker(p, time.Second, nil)

	assert.NoError(t, h.Check(context.Background()))
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestHealthChecker_Unreachable(t *testing.T) {
	p := &fakePinger{err: fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED)}
	h := postgres.NewHealthChecker(p, time.Second, nil)

	err := h.Check(context.Background())
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestHealthChecker_CoalescesConcurrentPings(t *testing.T) {
	p := &fakePinger{release: make(chan struct{})}
	h := postgres.NewHealthChecker(p, 5*time.Second, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.Check(context.Background()))
		}()
	}

	// Let every caller join the in-flight ping before it completes.
	time.Sleep(50 * time.Millisecond)
	close(p.release)
	wg.Wait()

	assert.Equal(t, int32(1), p.calls.Load())
}

func TestHealthChecker_Timeout(t *testing.T) {
	p := &fakePinger{release: make(chan struct{})}
	h := postgres.NewHealthChecker(p, 20*time.Millisecond, nil)

	err := h.Check(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
