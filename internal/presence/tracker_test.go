package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/events"
	"github.com/gcgcontrol/panel-service/internal/repository/memory"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
)

func newTestTracker(t *testing.T) (*Tracker, *memory.AnalystStore, *scheduler.ManualClock) {
	t.Helper()
	store := memory.NewAnalystStore()
	clock := scheduler.NewManualClock(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	tracker := NewTracker(store, events.NewInMemoryDispatcher(), clock, zap.NewNop(), Options{
		StaleThreshold: 3 * time.Minute,
		OverrideGrace:  5 * time.Minute,
	})
	return tracker, store, clock
}

func TestHeartbeatCreatesActiveRecord(t *testing.T) {
	tracker, store, clock := newTestTracker(t)
	ctx := context.Background()

	err := tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"})
	require.NoError(t, err)

	record, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, record.Status)
	assert.Equal(t, "Ana", record.DisplayName)
	assert.Equal(t, clock.Now(), record.LastHeartbeatAt)
}

func TestHeartbeatMergesOnlyProvidedFields(t *testing.T) {
	tracker, store, _ := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{
		DisplayName:       "Ana",
		Position:          "N1",
		AssignedClients:   []string{"Acme"},
		InternalExtension: "104",
	}))
	// Sparse snapshot, as sent by the login heartbeat.
	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))

	record, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "N1", record.Position)
	assert.Equal(t, []string{"Acme"}, record.AssignedClients)
	assert.Equal(t, "104", record.InternalExtension)
}

func TestDisplayStatusGoesOfflineWhenStale(t *testing.T) {
	tracker, store, clock := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))

	clock.Advance(3*time.Minute + time.Second)

	snapshot, err := tracker.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, domain.StatusOffline, snapshot[0].Status)

	// Nothing was persisted: the stored record is untouched.
	record, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, record.Status)
}

func TestDisplayStatusHealsOnReturningHeartbeat(t *testing.T) {
	tracker, _, clock := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))
	clock.Advance(10 * time.Minute)
	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{}))

	snapshot, err := tracker.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, domain.StatusActive, snapshot[0].Status)
}

func TestAdminOverrideSurvivesHeartbeat(t *testing.T) {
	tracker, store, clock := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))

	// Admin moves the card to absent.
	require.NoError(t, store.UpdateStatus(ctx, "a1", domain.StatusAbsent, "admin-1", clock.Now()))

	clock.Advance(30 * time.Second)
	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{}))

	record, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbsent, record.Status)
}

func TestAdminOverrideLapsesAfterGrace(t *testing.T) {
	tracker, store, clock := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))
	require.NoError(t, store.UpdateStatus(ctx, "a1", domain.StatusAbsent, "admin-1", clock.Now()))

	clock.Advance(5*time.Minute + time.Second)
	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{}))

	record, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, record.Status)
}

func TestAdminOverrideKeepsStaleRecordVisible(t *testing.T) {
	tracker, store, clock := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))
	require.NoError(t, store.UpdateStatus(ctx, "a1", domain.StatusAbsent, "admin-1", clock.Now()))

	// Past the stale threshold but inside the override grace: the card
	// stays on the admin's column instead of reading offline.
	clock.Advance(4 * time.Minute)

	snapshot, err := tracker.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, domain.StatusAbsent, snapshot[0].Status)
}

func TestMarkOfflineEndsAdminOverride(t *testing.T) {
	tracker, store, clock := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))
	require.NoError(t, store.UpdateStatus(ctx, "a1", domain.StatusAbsent, "admin-1", clock.Now()))
	require.NoError(t, tracker.MarkOffline(ctx, "a1"))

	// Re-login inside what was the grace window: session end cleared the
	// override, so the heartbeat self-manages again.
	clock.Advance(time.Minute)
	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))

	record, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, record.Status)
	assert.Nil(t, record.LastModifiedAt)
	assert.Empty(t, record.LastModifiedBy)
}

func TestMarkOfflineStampsLastSeen(t *testing.T) {
	tracker, store, clock := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))
	clock.Advance(time.Minute)
	require.NoError(t, tracker.MarkOffline(ctx, "a1"))

	record, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffline, record.Status)
	require.NotNil(t, record.LastSeen)
	assert.Equal(t, clock.Now(), *record.LastSeen)
}

func TestMarkOfflineUnknownAnalystIsNoop(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	assert.NoError(t, tracker.MarkOffline(context.Background(), "ghost"))
}

func TestSubscriberReceivesDerivedSnapshot(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	var got [][]domain.Analyst
	tracker.Subscribe(func(snapshot []domain.Analyst) {
		got = append(got, snapshot)
	})

	require.NoError(t, tracker.Heartbeat(ctx, "a1", domain.ProfileSnapshot{DisplayName: "Ana"}))

	require.Len(t, got, 1)
	require.Len(t, got[0], 1)
	assert.Equal(t, "a1", got[0][0].ID)
	assert.Equal(t, domain.StatusActive, got[0][0].Status)
}
