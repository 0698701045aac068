package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MirandaEdu/Tally/internal/store"
)

// Reporter periodically publishes store statistics so downstream dashboards
// can track comparison volume without polling the API.
type Reporter struct {
	store    store.Store
	events   Client
	interval time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewReporter(s store.Store, events Client, interval time.Duration, logger *slog.Logger) *Reporter {
	return &Reporter{
		store:    s,
		events:   events,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (r *Reporter) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.loop(ctx)
}

func (r *Reporter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Reporter) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.publishStats(ctx)
		}
	}
}

func (r *Reporter) publishStats(ctx context.Context) {
	stats, err := r.store.GetStats(ctx)
	if err != nil {
		r.logger.Error("failed to get stats", "error", err)
		return
	}
	if err := r.events.Publish(SubjectStats, StatsEvent{
		Comparisons: stats.Comparisons,
		StoredRows:  stats.Rows,
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		r.logger.Warn("failed to publish stats", "error", err)
	}
}
