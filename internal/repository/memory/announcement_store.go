package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gcgcontrol/panel-service/internal/domain"
)

// AnnouncementStore is an in-memory AnnouncementRepository.
type AnnouncementStore struct {
	mu            sync.RWMutex
	announcements map[string]domain.Announcement
}

// NewAnnouncementStore creates an empty store.
func NewAnnouncementStore() *AnnouncementStore {
	return &AnnouncementStore{announcements: make(map[string]domain.Announcement)}
}

func (s *AnnouncementStore) Insert(_ context.Context, ann *domain.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ann.CreatedAt = now
	ann.UpdatedAt = now
	s.announcements[ann.ID] = *ann
	return nil
}

func (s *AnnouncementStore) Update(_ context.Context, ann *domain.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.announcements[ann.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	ann.CreatedAt = existing.CreatedAt
	ann.CreatedBy = existing.CreatedBy
	ann.UpdatedAt = time.Now()
	s.announcements[ann.ID] = *ann
	return nil
}

func (s *AnnouncementStore) GetByID(_ context.Context, id string) (*domain.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ann, ok := s.announcements[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ann
	return &copied, nil
}

func (s *AnnouncementStore) List(_ context.Context) ([]domain.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Announcement, 0, len(s.announcements))
	for _, ann := range s.announcements {
		result = append(result, ann)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *AnnouncementStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.announcements[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.announcements, id)
	return nil
}
