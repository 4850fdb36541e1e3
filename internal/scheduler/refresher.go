package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

const DefaultRefreshInterval = 30 * time.Second

var ErrSnapshotNotReady = errors.New("no visibility snapshot collected yet")

// Refresher runs a collect cycle on a fixed interval and keeps the latest
// overview. A cycle never starts while another one is in flight.
type Refresher struct {
	collector visibilityPort.Collector
	sinks     []visibilityPort.SnapshotSink
	interval  time.Duration

	busy    atomic.Bool
	stopped atomic.Bool

	mu      sync.RWMutex
	latest  *domain.Overview
	lastErr error

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	startMu  sync.Mutex
	started  bool
	stopOnce sync.Once
}

// NewRefresher creates a refresher. A non-positive interval falls back to DefaultRefreshInterval.
func NewRefresher(collector visibilityPort.Collector, interval time.Duration, sinks ...visibilityPort.SnapshotSink) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		collector: collector,
		sinks:     sinks,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start runs one cycle immediately and then one per interval until Stop
func (r *Refresher) Start() {
	r.startMu.Lock()
	defer r.startMu.Unlock()
	if r.started || r.stopped.Load() {
		return
	}
	r.started = true

	logger.Info("Refresher: Starting with interval %s", r.interval)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.trigger()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.trigger()
			}
		}
	}()
}

// Stop halts the ticker and abandons the in-flight cycle; its result is not published.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		logger.Info("Refresher: Stopping")
		r.stopped.Store(true)
		r.cancel()
		r.wg.Wait()
	})
}

// RefreshNow runs one cycle synchronously. It reports false when a cycle was
// already in flight and this one was skipped.
func (r *Refresher) RefreshNow(ctx context.Context) bool {
	return r.run(ctx)
}

// Latest returns the most recent published overview together with the error
// of the cycle that produced it
func (r *Refresher) Latest() (domain.Overview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		if r.lastErr != nil {
			return domain.Overview{}, r.lastErr
		}
		return domain.Overview{}, ErrSnapshotNotReady
	}
	return *r.latest, r.lastErr
}

// IsBusy reports whether a cycle is in flight
func (r *Refresher) IsBusy() bool {
	return r.busy.Load()
}

// trigger starts a cycle in the background unless one is in flight
func (r *Refresher) trigger() {
	if !r.busy.CompareAndSwap(false, true) {
		logger.Warn("Refresher: Previous cycle still running, skipping tick")
		return
	}
	go func() {
		defer r.busy.Store(false)
		r.cycle(r.ctx)
	}()
}

func (r *Refresher) run(ctx context.Context) bool {
	if !r.busy.CompareAndSwap(false, true) {
		logger.WarnContext(ctx, "Refresher: Previous cycle still running, skipping refresh")
		return false
	}
	defer r.busy.Store(false)
	r.cycle(ctx)
	return true
}

func (r *Refresher) cycle(ctx context.Context) {
	start := time.Now()
	overview, err := r.collector.Collect(ctx)

	if ctx.Err() != nil || r.stopped.Load() {
		logger.WarnContext(ctx, "Refresher: Cycle abandoned after %s", time.Since(start))
		return
	}

	r.mu.Lock()
	if errors.Is(err, domain.ErrInventoryUnavailable) || err == nil {
		r.latest = &overview
	}
	r.lastErr = err
	r.mu.Unlock()

	if err != nil {
		logger.ErrorContext(ctx, "Refresher: Cycle failed after %s: %v", time.Since(start), err)
		return
	}
	logger.InfoContext(ctx, "Refresher: Cycle %s published in %s", overview.CycleID, time.Since(start))

	for _, sink := range r.sinks {
		if err := sink.Publish(ctx, overview); err != nil {
			logger.ErrorContext(ctx, "Refresher: Failed to publish cycle %s: %v", overview.CycleID, err)
		}
	}
}
