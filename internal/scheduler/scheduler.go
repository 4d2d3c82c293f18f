package scheduler

import (
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handle cancels a scheduled callback series.
type Handle interface {
	Cancel()
}

// Scheduler fires callbacks at computed future instants. A callback panicking
// must not prevent subsequent scheduled fires.
type Scheduler interface {
	// At runs fn once at the given instant. Instants in the past fire
	// immediately.
	At(instant time.Time, fn func()) Handle
	// Every runs fn once per interval until cancelled.
	Every(interval time.Duration, fn func()) Handle
	// Stop cancels all outstanding handles and waits for running callbacks.
	Stop()
}

// timerScheduler is the production Scheduler backed by the runtime timers.
type timerScheduler struct {
	logger *zap.Logger

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New builds a Scheduler.
func New(logger *zap.Logger) Scheduler {
	return &timerScheduler{
		logger: logger,
		done:   make(chan struct{}),
	}
}

type timerHandle struct {
	once   sync.Once
	cancel chan struct{}
}

func (h *timerHandle) Cancel() {
	h.once.Do(func() { close(h.cancel) })
}

func (s *timerScheduler) At(instant time.Time, fn func()) Handle {
	handle := &timerHandle{cancel: make(chan struct{})}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return handle
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		delay := time.Until(instant)
		if delay < 0 {
			delay = 0
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			s.safeRun(fn)
		case <-handle.cancel:
		case <-s.done:
		}
	}()

	return handle
}

func (s *timerScheduler) Every(interval time.Duration, fn func()) Handle {
	handle := &timerHandle{cancel: make(chan struct{})}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return handle
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.safeRun(fn)
			case <-handle.cancel:
				return
			case <-s.done:
				return
			}
		}
	}()

	return handle
}

func (s *timerScheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
}

// safeRun isolates per-invocation failures so one bad fire cannot kill the
// series or the scheduler.
func (s *timerScheduler) safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled callback panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	fn()
}
