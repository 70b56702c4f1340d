package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestJanitor_SweepsPeriodically(t *testing.T) {
	target := &countingSweeper{}
	janitor := NewJanitor(target, zap.NewNop(), 5*time.Millisecond)
	janitor.Start(context.Background())

	assert.Eventually(t, func() bool {
		return target.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	janitor.Stop()
}

func TestJanitor_KeepsRunningAfterErrors(t *testing.T) {
	target := &countingSweeper{err: errors.New("boom")}
	janitor := NewJanitor(target, zap.NewNop(), 5*time.Millisecond)
	janitor.Start(context.Background())
	defer janitor.Stop()

	assert.Eventually(t, func() bool {
		return target.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestJanitor_GracefulShutdown(t *testing.T) {
	janitor := NewJanitor(&countingSweeper{}, zap.NewNop(), time.Hour)
	janitor.Start(context.Background())

	done := make(chan struct{})
	go func() {
		janitor.Stop()
		janitor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitor_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	janitor := NewJanitor(&countingSweeper{}, zap.NewNop(), time.Hour)
	janitor.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		janitor.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor ignored context cancellation")
	}
}
