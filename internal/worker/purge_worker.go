package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/chat"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
)

// PurgeWorker runs the retention purge: once at the next local midnight, then
// on a fixed interval. A failed run is logged and retried on the next
// scheduled tick only, so concurrent clients never pile immediate retries
// onto a struggling backend.
type PurgeWorker struct {
	store    *chat.Store
	sched    scheduler.Scheduler
	clock    scheduler.Clock
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	stopped bool
	handles []scheduler.Handle
}

// NewPurgeWorker builds the worker.
func NewPurgeWorker(store *chat.Store, sched scheduler.Scheduler, clock scheduler.Clock, logger *zap.Logger, interval time.Duration) *PurgeWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &PurgeWorker{
		store:    store,
		sched:    sched,
		clock:    clock,
		logger:   logger,
		interval: interval,
	}
}

// Start schedules the midnight run and the recurring series.
func (w *PurgeWorker) Start() {
	midnight := NextMidnight(w.clock.Now())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.handles = append(w.handles, w.sched.At(midnight, func() {
		w.RunOnce()
		w.mu.Lock()
		// The midnight fire can race Stop; a stopped worker must not
		// schedule the recurring series.
		if !w.stopped {
			w.handles = append(w.handles, w.sched.Every(w.interval, w.RunOnce))
		}
		w.mu.Unlock()
	}))

	w.logger.Info("purge scheduled",
		zap.Time("first_run", midnight),
		zap.Duration("interval", w.interval))
}

// Stop cancels outstanding schedules.
func (w *PurgeWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for _, handle := range w.handles {
		handle.Cancel()
	}
	w.handles = nil
}

// RunOnce executes a single purge pass.
func (w *PurgeWorker) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := w.store.PurgeExpired(ctx)
	if err != nil {
		w.logger.Warn("purge failed, will retry on next tick", zap.Error(err))
		return
	}
	if removed > 0 {
		w.logger.Info("purge complete", zap.Int64("removed", removed))
	}
}

// NextMidnight returns the start of the day after t, in t's location.
func NextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}
