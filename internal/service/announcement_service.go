package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/events"
	"github.com/gcgcontrol/panel-service/internal/repository"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
	apperrors "github.com/gcgcontrol/panel-service/pkg/util/errorutil"
)

// AnnouncementService manages the board notices. Creation, editing, and
// deletion are admin-only; every analyst can read.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	dispatcher    events.Dispatcher
	clock         scheduler.Clock
}

// NewAnnouncementService builds the service.
func NewAnnouncementService(announcements repository.AnnouncementRepository, dispatcher events.Dispatcher, clock scheduler.Clock) *AnnouncementService {
	return &AnnouncementService{announcements: announcements, dispatcher: dispatcher, clock: clock}
}

func requireAdmin(actor *domain.Account) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func validateAnnouncement(title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return apperrors.NewValidationError("title and content required", nil)
	}
	return nil
}

// Create adds a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, actor *domain.Account, title, content string) (*domain.Announcement, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateAnnouncement(title, content); err != nil {
		return nil, err
	}

	ann := &domain.Announcement{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
	}
	if err := s.announcements.Insert(ctx, ann); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.publish(ctx, actor, ann.ID); err != nil {
		return nil, err
	}
	return ann, nil
}

// Update edits an existing announcement.
func (s *AnnouncementService) Update(ctx context.Context, actor *domain.Account, id, title, content string) (*domain.Announcement, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateAnnouncement(title, content); err != nil {
		return nil, err
	}

	ann, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("announcement", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	ann.Title = strings.TrimSpace(title)
	ann.Content = strings.TrimSpace(content)
	ann.UpdatedBy = actor.ID
	if err := s.announcements.Update(ctx, ann); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.publish(ctx, actor, ann.ID); err != nil {
		return nil, err
	}
	return ann, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, actor *domain.Account, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.announcements.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("announcement", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return s.publish(ctx, actor, id)
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]domain.Announcement, error) {
	anns, err := s.announcements.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return anns, nil
}

func (s *AnnouncementService) publish(ctx context.Context, actor *domain.Account, id string) error {
	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAnnouncementSaved,
		SubjectID: id,
		Actor:     events.Actor{AccountID: actor.ID, Role: actor.Role},
		Timestamp: s.clock.Now(),
	})
}
