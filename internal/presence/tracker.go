package presence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/events"
	"github.com/gcgcontrol/panel-service/internal/repository"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
)

// Snapshot delivery callback. Records are passed through display-status
// derivation before delivery.
type Subscriber func([]domain.Analyst)

// Tracker maintains analyst liveness: heartbeats refresh records, staleness
// is derived at read time, and admin overrides suppress heartbeat
// self-management for a grace window.
type Tracker struct {
	analysts   repository.AnalystRepository
	dispatcher events.Dispatcher
	clock      scheduler.Clock
	logger     *zap.Logger

	staleThreshold time.Duration
	overrideGrace  time.Duration

	mu          sync.RWMutex
	subscribers []Subscriber
}

// Options tune the staleness rules.
type Options struct {
	StaleThreshold time.Duration
	OverrideGrace  time.Duration
}

// NewTracker builds the tracker and registers it on the dispatcher so every
// analyst change fans a fresh snapshot out to subscribers.
func NewTracker(analysts repository.AnalystRepository, dispatcher events.Dispatcher, clock scheduler.Clock, logger *zap.Logger, opts Options) *Tracker {
	if opts.StaleThreshold <= 0 {
		opts.StaleThreshold = 3 * time.Minute
	}
	if opts.OverrideGrace <= 0 {
		opts.OverrideGrace = 5 * time.Minute
	}

	t := &Tracker{
		analysts:       analysts,
		dispatcher:     dispatcher,
		clock:          clock,
		logger:         logger,
		staleThreshold: opts.StaleThreshold,
		overrideGrace:  opts.OverrideGrace,
	}

	for _, eventType := range events.AnalystEvents {
		dispatcher.Subscribe(eventType, t.onAnalystEvent)
	}
	return t
}

// Heartbeat idempotently upserts the analyst record, merging the profile
// snapshot and refreshing last_heartbeat_at. The stored status resets to
// active unless a live admin override holds it.
func (t *Tracker) Heartbeat(ctx context.Context, analystID string, profile domain.ProfileSnapshot) error {
	now := t.clock.Now()

	record, err := t.analysts.GetByID(ctx, analystID)
	if err != nil && err != pgx.ErrNoRows {
		return err
	}

	if record == nil {
		// First login in progress: the record starts active, never offline.
		record = &domain.Analyst{ID: analystID, Status: domain.StatusActive}
	}

	mergeProfile(record, profile)
	record.LastHeartbeatAt = now

	if !t.overrideActive(record, analystID, now) {
		record.Status = domain.StatusActive
	}

	if err := t.analysts.Upsert(ctx, record); err != nil {
		return err
	}

	return t.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAnalystChanged,
		SubjectID: analystID,
		Actor:     events.Actor{AccountID: analystID, Role: domain.RoleAnalyst},
		Timestamp: now,
	})
}

// MarkOffline stamps the record offline with last_seen. Called on graceful
// session end and best-effort on abrupt close; a missing record is not an
// error.
func (t *Tracker) MarkOffline(ctx context.Context, analystID string) error {
	now := t.clock.Now()

	if err := t.analysts.SetOffline(ctx, analystID, now); err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return err
	}

	return t.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAnalystChanged,
		SubjectID: analystID,
		Actor:     events.Actor{AccountID: analystID, Role: domain.RoleAnalyst},
		Timestamp: now,
	})
}

// DeriveDisplayStatus is the read-time staleness rule: a record whose
// heartbeat is older than the stale threshold reads as offline unless an
// admin override is still pending. Nothing is persisted, so a returning
// heartbeat heals the record without a separate write.
func (t *Tracker) DeriveDisplayStatus(record domain.Analyst, asOf time.Time) domain.AnalystStatus {
	if asOf.Sub(record.LastHeartbeatAt) > t.staleThreshold && !t.overrideActive(&record, record.ID, asOf) {
		return domain.StatusOffline
	}
	return record.Status
}

// Snapshot returns all records with display status applied.
func (t *Tracker) Snapshot(ctx context.Context) ([]domain.Analyst, error) {
	records, err := t.analysts.List(ctx)
	if err != nil {
		return nil, err
	}

	asOf := t.clock.Now()
	for i := range records {
		records[i].Status = t.DeriveDisplayStatus(records[i], asOf)
	}
	return records, nil
}

// Subscribe registers a callback fired with a derived snapshot on every
// analyst change.
func (t *Tracker) Subscribe(fn Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}

// overrideActive reports whether a foreign admin write still holds the stored
// status: modified by someone else, within the grace window. The override
// ends when the analyst goes offline or the window lapses, after which
// heartbeats resume normal self-management.
func (t *Tracker) overrideActive(record *domain.Analyst, analystID string, asOf time.Time) bool {
	if record.LastModifiedAt == nil || record.LastModifiedBy == "" {
		return false
	}
	if record.LastModifiedBy == analystID {
		return false
	}
	return asOf.Sub(*record.LastModifiedAt) < t.overrideGrace
}

func (t *Tracker) onAnalystEvent(ctx context.Context, _ events.Event) error {
	t.mu.RLock()
	subscribers := append([]Subscriber(nil), t.subscribers...)
	t.mu.RUnlock()

	if len(subscribers) == 0 {
		return nil
	}

	snapshot, err := t.Snapshot(ctx)
	if err != nil {
		t.logger.Warn("presence snapshot failed", zap.Error(err))
		return err
	}
	for _, fn := range subscribers {
		fn(snapshot)
	}
	return nil
}

func mergeProfile(record *domain.Analyst, profile domain.ProfileSnapshot) {
	if profile.DisplayName != "" {
		record.DisplayName = profile.DisplayName
	}
	if profile.Email != "" {
		record.Email = profile.Email
	}
	if profile.AvatarURL != "" {
		record.AvatarURL = profile.AvatarURL
	}
	if profile.Position != "" {
		record.Position = profile.Position
	}
	if len(profile.AssignedClients) > 0 {
		record.AssignedClients = append([]string(nil), profile.AssignedClients...)
	}
	if profile.InternalExtension != "" {
		record.InternalExtension = profile.InternalExtension
	}
	if profile.ShiftStart != "" {
		record.ShiftStart = profile.ShiftStart
	}
	if profile.ShiftEnd != "" {
		record.ShiftEnd = profile.ShiftEnd
	}
	if profile.CurrentTask != "" {
		record.CurrentTask = profile.CurrentTask
	}
}
