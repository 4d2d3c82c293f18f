package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAtFiresOnce(t *testing.T) {
	sched := New(zap.NewNop())
	defer sched.Stop()

	fired := make(chan struct{})
	sched.At(time.Now().Add(10*time.Millisecond), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestAtPastInstantFiresImmediately(t *testing.T) {
	sched := New(zap.NewNop())
	defer sched.Stop()

	fired := make(chan struct{})
	sched.At(time.Now().Add(-time.Hour), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestEveryRepeats(t *testing.T) {
	sched := New(zap.NewNop())
	defer sched.Stop()

	var count atomic.Int32
	done := make(chan struct{})
	sched.Every(5*time.Millisecond, func() {
		if count.Add(1) == 3 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected 3 fires, got %d", count.Load())
	}
}

func TestCancelStopsSeries(t *testing.T) {
	sched := New(zap.NewNop())
	defer sched.Stop()

	var count atomic.Int32
	handle := sched.Every(5*time.Millisecond, func() { count.Add(1) })

	time.Sleep(20 * time.Millisecond)
	handle.Cancel()
	settled := count.Load()

	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, count.Load(), settled+1)
}

func TestPanicDoesNotKillSeries(t *testing.T) {
	sched := New(zap.NewNop())
	defer sched.Stop()

	var count atomic.Int32
	done := make(chan struct{})
	sched.Every(5*time.Millisecond, func() {
		if count.Add(1) == 3 {
			close(done)
		}
		panic("bad fire")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("series died after panic")
	}
}

func TestStopPreventsNewWork(t *testing.T) {
	sched := New(zap.NewNop())
	sched.Stop()

	fired := make(chan struct{}, 1)
	sched.At(time.Now(), func() { fired <- struct{}{} })

	select {
	case <-fired:
		t.Fatal("stopped scheduler ran a callback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	require.Equal(t, start, clock.Now())

	clock.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), clock.Now())

	pinned := start.Add(time.Hour)
	clock.Set(pinned)
	assert.Equal(t, pinned, clock.Now())
}
