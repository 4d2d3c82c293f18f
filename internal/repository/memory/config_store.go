package memory

import (
	"context"
	"sync"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// PanelConfigStore is an in-memory PanelConfigRepository.
type PanelConfigStore struct {
	mu        sync.RWMutex
	retention *domain.RetentionPolicy
}

// NewPanelConfigStore creates an empty store.
func NewPanelConfigStore() *PanelConfigStore {
	return &PanelConfigStore{}
}

func (s *PanelConfigStore) GetRetention(_ context.Context) (*domain.RetentionPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.retention == nil {
		return nil, nil
	}
	copied := *s.retention
	return &copied, nil
}

func (s *PanelConfigStore) SetRetention(_ context.Context, policy domain.RetentionPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.retention = &policy
	return nil
}
