package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/chat"
	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/events"
	"github.com/gcgcontrol/panel-service/internal/repository/memory"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
)

// flakyMessages fails DeleteBefore while tripped, passing everything else
// through to the in-memory store.
type flakyMessages struct {
	*memory.MessageStore
	failing atomic.Bool
}

func (f *flakyMessages) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.failing.Load() {
		return 0, errors.New("backend down")
	}
	return f.MessageStore.DeleteBefore(ctx, cutoff)
}

func TestNextMidnight(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	now := time.Date(2025, 6, 2, 23, 30, 0, 0, loc)

	next := NextMidnight(now)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, loc), next)

	// Already at midnight: the next run is the following day, never now.
	atMidnight := time.Date(2025, 6, 3, 0, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, loc), NextMidnight(atMidnight))
}

func TestRunOnceRetriesOnlyOnNextTick(t *testing.T) {
	ctx := context.Background()
	clock := scheduler.NewManualClock(time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC))
	messages := &flakyMessages{MessageStore: memory.NewMessageStore()}
	store := chat.NewStore(messages, memory.NewPanelConfigStore(), events.NewInMemoryDispatcher(), clock, zap.NewNop())

	_, err := store.Append(ctx, domain.ChatMessage{SenderID: "a1", Body: "stale"})
	require.NoError(t, err)
	clock.Advance(25 * time.Hour)

	worker := NewPurgeWorker(store, scheduler.New(zap.NewNop()), clock, zap.NewNop(), time.Hour)

	// Failed pass: logged, swallowed, nothing removed.
	messages.failing.Store(true)
	worker.RunOnce()
	remaining, err := messages.ListOrdered(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	// Next tick with the backend healthy succeeds.
	messages.failing.Store(false)
	worker.RunOnce()
	remaining, err = messages.ListOrdered(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

// recordingScheduler captures scheduled callbacks so tests can fire them at
// chosen points.
type recordingScheduler struct {
	atFns    []func()
	everyFns []func()
}

type noopHandle struct{}

func (noopHandle) Cancel() {}

func (r *recordingScheduler) At(_ time.Time, fn func()) scheduler.Handle {
	r.atFns = append(r.atFns, fn)
	return noopHandle{}
}

func (r *recordingScheduler) Every(_ time.Duration, fn func()) scheduler.Handle {
	r.everyFns = append(r.everyFns, fn)
	return noopHandle{}
}

func (r *recordingScheduler) Stop() {}

func TestMidnightFireAfterStopSchedulesNothing(t *testing.T) {
	clock := scheduler.NewManualClock(time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC))
	store := chat.NewStore(memory.NewMessageStore(), memory.NewPanelConfigStore(), events.NewInMemoryDispatcher(), clock, zap.NewNop())
	sched := &recordingScheduler{}

	worker := NewPurgeWorker(store, sched, clock, zap.NewNop(), time.Hour)
	worker.Start()
	require.Len(t, sched.atFns, 1)

	worker.Stop()
	// Midnight fire landing after Stop must not start the recurring series.
	sched.atFns[0]()
	assert.Empty(t, sched.everyFns)

	// And a stopped worker refuses to reschedule.
	worker.Start()
	assert.Len(t, sched.atFns, 1)
}

func TestStartSchedulesMidnightRun(t *testing.T) {
	ctx := context.Background()
	clock := scheduler.RealClock()
	store := chat.NewStore(memory.NewMessageStore(), memory.NewPanelConfigStore(), events.NewInMemoryDispatcher(), clock, zap.NewNop())
	sched := scheduler.New(zap.NewNop())
	defer sched.Stop()

	worker := NewPurgeWorker(store, sched, clock, zap.NewNop(), time.Hour)
	worker.Start()
	worker.Stop()

	// Stop cancels the pending midnight handle; nothing fires afterwards.
	_, err := store.Append(ctx, domain.ChatMessage{SenderID: "a1", Body: "still here"})
	require.NoError(t, err)
}
