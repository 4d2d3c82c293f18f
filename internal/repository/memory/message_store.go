package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// MessageStore is an in-memory MessageRepository.
type MessageStore struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
}

// NewMessageStore creates an empty store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) Insert(_ context.Context, msg *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *MessageStore) ListOrdered(_ context.Context) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := append([]domain.ChatMessage(nil), s.messages...)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MessageStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, msg := range s.messages {
		if msg.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MessageStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := int64(len(s.messages))
	s.messages = nil
	return removed, nil
}

func (s *MessageStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []domain.ChatMessage
	var removed int64
	for _, msg := range s.messages {
		if msg.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, msg)
	}
	s.messages = kept
	return removed, nil
}
