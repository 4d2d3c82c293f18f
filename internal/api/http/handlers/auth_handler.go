package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gcgcontrol/panel-service/internal/api/dto"
	"github.com/gcgcontrol/panel-service/internal/auth"
	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/presence"
	"github.com/gcgcontrol/panel-service/internal/service"
)

// AuthHandler exposes session endpoints. Login marks the session started
// (first heartbeat); logout marks the presence record offline before the
// session token is discarded client-side.
type AuthHandler struct {
	auth    *service.AuthService
	tracker *presence.Tracker
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, tracker *presence.Tracker) *AuthHandler {
	return &AuthHandler{auth: authService, tracker: tracker}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	account, token, exp, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"account": accountView(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	account, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	// Session start doubles as the first heartbeat so the record is live
	// before the periodic interval kicks in.
	if err := h.tracker.Heartbeat(c.Context(), account.ID, domain.ProfileSnapshot{
		DisplayName: account.DisplayName,
		Email:       account.Email,
		AvatarURL:   account.AvatarURL,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": accountView(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout: best-effort offline mark on graceful
// session end.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.tracker.MarkOffline(c.Context(), principal.Account.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func accountView(account *domain.Account) fiber.Map {
	return fiber.Map{
		"id":    account.ID,
		"name":  account.DisplayName,
		"email": account.Email,
		"role":  account.Role,
	}
}
