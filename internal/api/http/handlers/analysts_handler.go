package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gcgcontrol/panel-service/internal/api/dto"
	"github.com/gcgcontrol/panel-service/internal/auth"
	"github.com/gcgcontrol/panel-service/internal/board"
	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/presence"
)

// AnalystsHandler exposes the roster: snapshots, heartbeats, profile saves,
// and the admin drag-and-drop transitions.
type AnalystsHandler struct {
	tracker    *presence.Tracker
	reconciler *board.Reconciler
}

// NewAnalystsHandler constructs handler.
func NewAnalystsHandler(tracker *presence.Tracker, reconciler *board.Reconciler) *AnalystsHandler {
	return &AnalystsHandler{tracker: tracker, reconciler: reconciler}
}

// List handles GET /analysts: the derived roster snapshot.
func (h *AnalystsHandler) List(c *fiber.Ctx) error {
	records, err := h.tracker.Snapshot(c.Context())
	if err != nil {
		return err
	}

	views := make([]dto.AnalystView, 0, len(records))
	for _, record := range records {
		views = append(views, dto.NewAnalystView(record))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Heartbeat handles POST /analysts/heartbeat for the calling session.
func (h *AnalystsHandler) Heartbeat(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.HeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account := principal.Account
	err := h.tracker.Heartbeat(c.Context(), account.ID, domain.ProfileSnapshot{
		DisplayName:       req.DisplayName,
		Email:             account.Email,
		AvatarURL:         account.AvatarURL,
		Position:          req.Position,
		AssignedClients:   req.AssignedClients,
		InternalExtension: req.InternalExtension,
		ShiftStart:        req.ShiftStart,
		ShiftEnd:          req.ShiftEnd,
		CurrentTask:       req.CurrentTask,
	})
	if err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SaveProfile handles PUT /analysts/profile: the first-login/edit form with
// its required fields.
func (h *AnalystsHandler) SaveProfile(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.ProfileSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.DisplayName) == "" ||
		strings.TrimSpace(req.InternalExtension) == "" ||
		req.ShiftStart == "" || req.ShiftEnd == "" ||
		len(req.AssignedClients) == 0 {
		return fiber.NewError(http.StatusBadRequest, "name, extension, shift times and at least one client required")
	}

	account := principal.Account
	err := h.tracker.Heartbeat(c.Context(), account.ID, domain.ProfileSnapshot{
		DisplayName:       req.DisplayName,
		Email:             account.Email,
		AvatarURL:         account.AvatarURL,
		Position:          req.Position,
		AssignedClients:   req.AssignedClients,
		InternalExtension: req.InternalExtension,
		ShiftStart:        req.ShiftStart,
		ShiftEnd:          req.ShiftEnd,
		CurrentTask:       req.CurrentTask,
	})
	if err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetStatus handles PUT /analysts/:id/status: the drag-and-drop transition.
func (h *AnalystsHandler) SetStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	err := h.reconciler.SetStatus(c.Context(), principal.Account, c.Params("id"), domain.AnalystStatus(req.Status))
	if err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /analysts/:id. Admin only.
func (h *AnalystsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	if err := h.reconciler.DeleteAnalyst(c.Context(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
