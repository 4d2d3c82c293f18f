package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// AnalystStore is an in-memory AnalystRepository used by tests and by
// single-process deployments without Postgres.
type AnalystStore struct {
	mu       sync.RWMutex
	analysts map[string]domain.Analyst
}

// NewAnalystStore creates an empty store.
func NewAnalystStore() *AnalystStore {
	return &AnalystStore{analysts: make(map[string]domain.Analyst)}
}

func (s *AnalystStore) Upsert(_ context.Context, analyst *domain.Analyst) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.analysts[analyst.ID]; ok {
		analyst.CreatedAt = existing.CreatedAt
	} else {
		analyst.CreatedAt = now
	}
	analyst.UpdatedAt = now
	s.analysts[analyst.ID] = cloneAnalyst(*analyst)
	return nil
}

func (s *AnalystStore) GetByID(_ context.Context, id string) (*domain.Analyst, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analyst, ok := s.analysts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := cloneAnalyst(analyst)
	return &copied, nil
}

func (s *AnalystStore) List(_ context.Context) ([]domain.Analyst, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Analyst, 0, len(s.analysts))
	for _, analyst := range s.analysts {
		result = append(result, cloneAnalyst(analyst))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayName < result[j].DisplayName
	})
	return result, nil
}

func (s *AnalystStore) UpdateStatus(_ context.Context, id string, status domain.AnalystStatus, modifiedBy string, modifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	analyst, ok := s.analysts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	analyst.Status = status
	analyst.LastModifiedBy = modifiedBy
	at := modifiedAt
	analyst.LastModifiedAt = &at
	analyst.UpdatedAt = time.Now()
	s.analysts[id] = analyst
	return nil
}

func (s *AnalystStore) SetOffline(_ context.Context, id string, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	analyst, ok := s.analysts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	analyst.Status = domain.StatusOffline
	seen := lastSeen
	analyst.LastSeen = &seen
	analyst.LastModifiedBy = ""
	analyst.LastModifiedAt = nil
	analyst.UpdatedAt = time.Now()
	s.analysts[id] = analyst
	return nil
}

func (s *AnalystStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.analysts, id)
	return nil
}

func cloneAnalyst(a domain.Analyst) domain.Analyst {
	copied := a
	copied.AssignedClients = append([]string(nil), a.AssignedClients...)
	if a.LastSeen != nil {
		seen := *a.LastSeen
		copied.LastSeen = &seen
	}
	if a.LastModifiedAt != nil {
		at := *a.LastModifiedAt
		copied.LastModifiedAt = &at
	}
	return copied
}
