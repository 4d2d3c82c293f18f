package board

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/events"
	"github.com/gcgcontrol/panel-service/internal/repository"
	"github.com/gcgcontrol/panel-service/internal/scheduler"
	apperrors "github.com/gcgcontrol/panel-service/pkg/util/errorutil"
)

// Reconciler resolves admin-driven status transitions (drag-and-drop between
// board columns) against the analyst's own heartbeat writes. The admin write
// stamps last_modified_by/last_modified_at; the presence tracker honors that
// stamp for the override grace window instead of resetting status to active.
type Reconciler struct {
	analysts   repository.AnalystRepository
	dispatcher events.Dispatcher
	clock      scheduler.Clock
	logger     *zap.Logger
}

// NewReconciler builds the reconciler.
func NewReconciler(analysts repository.AnalystRepository, dispatcher events.Dispatcher, clock scheduler.Clock, logger *zap.Logger) *Reconciler {
	return &Reconciler{analysts: analysts, dispatcher: dispatcher, clock: clock, logger: logger}
}

func requireAdmin(actor *domain.Account) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// SetStatus applies an admin status transition. Non-admin actors are refused
// with no write; moving a card onto its current column is a no-op.
func (r *Reconciler) SetStatus(ctx context.Context, actor *domain.Account, analystID string, newStatus domain.AnalystStatus) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !domain.ValidStatus(newStatus) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}

	record, err := r.analysts.GetByID(ctx, analystID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("analyst", map[string]any{"analyst_id": analystID})
		}
		return apperrors.MapError(err)
	}

	// Source and destination column must differ.
	if record.Status == newStatus {
		return nil
	}

	now := r.clock.Now()
	if err := r.analysts.UpdateStatus(ctx, analystID, newStatus, actor.ID, now); err != nil {
		return apperrors.MapError(err)
	}

	r.logger.Info("status reassigned",
		zap.String("analyst_id", analystID),
		zap.String("status", string(newStatus)),
		zap.String("by", actor.ID))

	return r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAnalystChanged,
		SubjectID: analystID,
		Actor:     events.Actor{AccountID: actor.ID, Role: actor.Role},
		Timestamp: now,
	})
}

// DeleteAnalyst removes a record from the roster. Admin only.
func (r *Reconciler) DeleteAnalyst(ctx context.Context, actor *domain.Account, analystID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := r.analysts.Delete(ctx, analystID); err != nil {
		return apperrors.MapError(err)
	}

	return r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAnalystDeleted,
		SubjectID: analystID,
		Actor:     events.Actor{AccountID: actor.ID, Role: actor.Role},
		Timestamp: r.clock.Now(),
	})
}
