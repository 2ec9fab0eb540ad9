package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskify/internal/model"
)

// StatsSource is the part of the repository the refresher reads from.
type StatsSource interface {
	GetStats(ctx context.Context) (model.Stats, error)
}

// StatsRefresher periodically reads todo stats and hands them to a sink,
// normally metrics.ObserveStats.
type StatsRefresher struct {
	source   StatsSource
	sink     func(model.Stats)
	logger   *zap.Logger
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
	once     sync.Once
}

func NewStatsRefresher(source StatsSource, sink func(model.Stats), logger *zap.Logger, interval time.Duration) *StatsRefresher {
	return &StatsRefresher{
		source:   source,
		sink:     sink,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the refresh loop. A non-positive interval is rejected
// instead of panicking inside the goroutine.
func (p *StatsRefresher) Start(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("stats interval must be positive, got %s", p.interval)
	}
	p.logger.Info("Starting stats refresher", zap.Duration("interval", p.interval))

	p.wg.Add(1)
	go p.run(ctx)
	return nil
}

// Stop is safe to call more than once.
func (p *StatsRefresher) Stop() {
	p.once.Do(func() {
		p.logger.Info("Stopping stats refresher...")
		close(p.stop)
	})
	p.wg.Wait()
}

func (p *StatsRefresher) run(ctx context.Context) {
	defer p.wg.Done()

	// Первое обновление сразу, не дожидаясь тикера
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *StatsRefresher) refresh(ctx context.Context) {
	stats, err := p.source.GetStats(ctx)
	if err != nil {
		p.logger.Error("stats refresh failed", zap.Error(err))
		return
	}
	p.sink(stats)
	p.logger.Debug("stats refreshed",
		zap.Int64("total", stats.Total),
		zap.Int64("completed", stats.Completed),
	)
}
