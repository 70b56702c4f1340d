package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Janitor periodically runs a Sweeper in the background.
type Janitor struct {
	target   Sweeper
	logger   *zap.Logger
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
	once     sync.Once
}

func NewJanitor(target Sweeper, logger *zap.Logger, interval time.Duration) *Janitor {
	return &Janitor{
		target:   target,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Starting janitor", zap.Duration("interval", j.interval))

	j.wg.Add(1)
	go j.run(ctx)
}

// Stop blocks until the background loop has exited. Safe to call twice.
func (j *Janitor) Stop() {
	j.once.Do(func() {
		j.logger.Info("Stopping janitor...")
		close(j.stop)
	})
	j.wg.Wait()
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := j.target.Sweep(ctx)
			if err != nil {
				j.logger.Error("sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				j.logger.Debug("swept expired entries", zap.Int("removed", removed))
			}
		}
	}
}
