package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/events"
	"github.com/gcgcontrol/panel-service/internal/repository"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
	apperrors "github.com/gcgcontrol/panel-service/pkg/util/errorutil"
)

// Subscriber receives the full ordered message set on every change.
type Subscriber func([]domain.ChatMessage)

// Filter narrows a chat listing. Zero value means no filtering.
type Filter struct {
	Client string
	Type   string
	Search string
}

// Store is the append-only chat log with subscription delivery and a shared
// time-boxed retention policy.
type Store struct {
	messages   repository.MessageRepository
	config     repository.PanelConfigRepository
	dispatcher events.Dispatcher
	clock      scheduler.Clock
	logger     *zap.Logger

	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewStore builds the store and registers snapshot fanout on the dispatcher.
func NewStore(messages repository.MessageRepository, config repository.PanelConfigRepository, dispatcher events.Dispatcher, clock scheduler.Clock, logger *zap.Logger) *Store {
	s := &Store{
		messages:   messages,
		config:     config,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     logger,
	}

	for _, eventType := range events.MessageEvents {
		dispatcher.Subscribe(eventType, s.onMessageEvent)
	}
	return s
}

// Append validates and stores a message, returning it with its assigned id
// and timestamp. A message must carry text or at least one tag.
func (s *Store) Append(ctx context.Context, msg domain.ChatMessage) (*domain.ChatMessage, error) {
	msg.Body = strings.TrimSpace(msg.Body)

	if msg.Empty() {
		return nil, apperrors.NewValidationError("message requires text or a tag", nil)
	}
	if msg.TaggedType != "" && !domain.ValidMessageType(msg.TaggedType) {
		return nil, apperrors.NewValidationError("unknown message type", map[string]any{"type": msg.TaggedType})
	}

	msg.ID = uuid.NewString()
	msg.CreatedAt = s.clock.Now()

	if err := s.messages.Insert(ctx, &msg); err != nil {
		return nil, apperrors.NewBackendUnavailable(err)
	}

	if err := s.publish(ctx, events.EventMessageAppended, msg.ID, msg.SenderID); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Remove deletes one message. Removing an unknown id is a no-op: no error,
// no state change, no notification.
func (s *Store) Remove(ctx context.Context, id string) error {
	deleted, err := s.messages.Delete(ctx, id)
	if err != nil {
		return apperrors.NewBackendUnavailable(err)
	}
	if !deleted {
		return nil
	}
	return s.publish(ctx, events.EventMessageRemoved, id, "")
}

// RemoveAll clears the chat. Admin only.
func (s *Store) RemoveAll(ctx context.Context, actor *domain.Account) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}

	removed, err := s.messages.DeleteAll(ctx)
	if err != nil {
		return apperrors.NewBackendUnavailable(err)
	}
	s.logger.Info("chat cleared", zap.Int64("removed", removed), zap.String("by", actor.ID))
	return s.publish(ctx, events.EventMessagesCleared, "", actor.ID)
}

// List returns the ordered messages matching the filter. Search is a
// case-insensitive substring match over body and tags.
func (s *Store) List(ctx context.Context, filter Filter) ([]domain.ChatMessage, error) {
	msgs, err := s.messages.ListOrdered(ctx)
	if err != nil {
		return nil, apperrors.NewBackendUnavailable(err)
	}
	if filter == (Filter{}) {
		return msgs, nil
	}

	search := strings.ToLower(filter.Search)
	var result []domain.ChatMessage
	for _, msg := range msgs {
		if filter.Client != "" && msg.TaggedClient != filter.Client {
			continue
		}
		if filter.Type != "" && msg.TaggedType != filter.Type {
			continue
		}
		if search != "" && !matchesSearch(msg, search) {
			continue
		}
		result = append(result, msg)
	}
	return result, nil
}

// SubscribeOrdered registers a callback fired with the full ordered set on
// every change.
func (s *Store) SubscribeOrdered(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SetPurgeBefore updates the shared retention cutoff. Admin only; the value
// is stored in shared config so every client purges against the same instant.
func (s *Store) SetPurgeBefore(ctx context.Context, actor *domain.Account, cutoff time.Time) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}

	policy := domain.RetentionPolicy{
		PurgeBefore: cutoff,
		UpdatedBy:   actor.ID,
		UpdatedAt:   s.clock.Now(),
	}
	if err := s.config.SetRetention(ctx, policy); err != nil {
		return apperrors.NewBackendUnavailable(err)
	}

	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRetentionChanged,
		Actor:     events.Actor{AccountID: actor.ID, Role: actor.Role},
		Timestamp: s.clock.Now(),
	})
}

// PurgeBefore returns the effective cutoff: the stored policy, or the start
// of the current day when no admin has set one.
func (s *Store) PurgeBefore(ctx context.Context) (time.Time, error) {
	policy, err := s.config.GetRetention(ctx)
	if err != nil {
		return time.Time{}, apperrors.NewBackendUnavailable(err)
	}
	if policy == nil {
		return domain.DefaultPurgeBefore(s.clock.Now()), nil
	}
	return policy.PurgeBefore, nil
}

// PurgeExpired deletes messages older than the effective cutoff and returns
// how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff, err := s.PurgeBefore(ctx)
	if err != nil {
		return 0, err
	}

	removed, err := s.messages.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, apperrors.NewBackendUnavailable(err)
	}
	if removed == 0 {
		return 0, nil
	}

	s.logger.Info("purged stale messages",
		zap.Int64("removed", removed),
		zap.Time("cutoff", cutoff))
	return removed, s.publish(ctx, events.EventMessagesCleared, "", "")
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string) error {
	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     events.Actor{AccountID: actorID},
		Timestamp: s.clock.Now(),
	})
}

func (s *Store) onMessageEvent(ctx context.Context, _ events.Event) error {
	s.mu.RLock()
	subscribers := append([]Subscriber(nil), s.subscribers...)
	s.mu.RUnlock()

	if len(subscribers) == 0 {
		return nil
	}

	snapshot, err := s.messages.ListOrdered(ctx)
	if err != nil {
		s.logger.Warn("chat snapshot failed", zap.Error(err))
		return err
	}
	for _, fn := range subscribers {
		fn(snapshot)
	}
	return nil
}

func matchesSearch(msg domain.ChatMessage, search string) bool {
	return strings.Contains(strings.ToLower(msg.Body), search) ||
		strings.Contains(strings.ToLower(msg.TaggedClient), search) ||
		strings.Contains(strings.ToLower(msg.TaggedType), search)
}
