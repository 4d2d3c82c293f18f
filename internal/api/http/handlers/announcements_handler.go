package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gcgcontrol/panel-service/internal/api/dto"
	"github.com/gcgcontrol/panel-service/internal/auth"
	"github.com/gcgcontrol/panel-service/internal/service"
)

// AnnouncementsHandler exposes the board notices. Writes are admin-only.
type AnnouncementsHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementsHandler constructs handler.
func NewAnnouncementsHandler(announcements *service.AnnouncementService) *AnnouncementsHandler {
	return &AnnouncementsHandler{announcements: announcements}
}

// List handles GET /announcements, newest first.
func (h *AnnouncementsHandler) List(c *fiber.Ctx) error {
	anns, err := h.announcements.List(c.Context())
	if err != nil {
		return err
	}

	views := make([]dto.AnnouncementView, 0, len(anns))
	for _, ann := range anns {
		views = append(views, dto.NewAnnouncementView(ann))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Create handles POST /announcements.
func (h *AnnouncementsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	ann, err := h.announcements.Create(c.Context(), principal.Account, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAnnouncementView(*ann)})
}

// Update handles PUT /announcements/:id.
func (h *AnnouncementsHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	ann, err := h.announcements.Update(c.Context(), principal.Account, c.Params("id"), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnnouncementView(*ann)})
}

// Delete handles DELETE /announcements/:id.
func (h *AnnouncementsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	if err := h.announcements.Delete(c.Context(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
