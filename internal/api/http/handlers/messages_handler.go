package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gcgcontrol/panel-service/internal/api/dto"
	"github.com/gcgcontrol/panel-service/internal/auth"
	"github.com/gcgcontrol/panel-service/internal/chat"
	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/mention"
	apperrors "github.com/gcgcontrol/panel-service/pkg/util/errorutil"
)

// MessagesHandler exposes the team chat.
type MessagesHandler struct {
	store *chat.Store
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(store *chat.Store) *MessagesHandler {
	return &MessagesHandler{store: store}
}

// List handles GET /messages with optional client/type/search filters.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	msgs, err := h.store.List(c.Context(), chat.Filter{
		Client: c.Query("client"),
		Type:   c.Query("type"),
		Search: c.Query("search"),
	})
	if err != nil {
		return err
	}

	views := make([]dto.MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, dto.NewMessageView(msg))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Send handles POST /messages.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account := principal.Account
	msg, err := h.store.Append(c.Context(), domain.ChatMessage{
		SenderID:          account.ID,
		SenderDisplayName: account.DisplayName,
		Body:              req.Body,
		TaggedClient:      req.TaggedClient,
		TaggedType:        req.TaggedType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageView(*msg)})
}

// Delete handles DELETE /messages/:id. Senders delete their own messages;
// admins delete any.
func (h *MessagesHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	account := principal.Account

	id := c.Params("id")
	if account.Role != domain.RoleAdmin {
		owned, err := h.ownsMessage(c, account.ID, id)
		if err != nil {
			return err
		}
		if !owned {
			return apperrors.NewForbidden("only the sender may delete a message")
		}
	}

	if err := h.store.Remove(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Clear handles DELETE /messages. Admin only (enforced in the store).
func (h *MessagesHandler) Clear(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	if err := h.store.RemoveAll(c.Context(), principal.Account); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetRetention handles PUT /messages/retention. Admin only.
func (h *MessagesHandler) SetRetention(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.RetentionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.PurgeBefore.IsZero() {
		return fiber.NewError(http.StatusBadRequest, "purge_before required")
	}

	if err := h.store.SetPurgeBefore(c.Context(), principal.Account, req.PurgeBefore); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Suggest handles GET /messages/suggestions?input=&cursor=&clients=a,b: the
// live mention suggestion contract re-evaluated per keystroke.
func (h *MessagesHandler) Suggest(c *fiber.Ctx) error {
	input := c.Query("input")
	cursor, err := strconv.Atoi(c.Query("cursor", strconv.Itoa(len(input))))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid cursor")
	}

	var clients []string
	if raw := c.Query("clients"); raw != "" {
		clients = splitClients(raw)
	}

	suggestions := mention.Suggest(input, cursor, clients)
	active, ok := mention.Active(input, cursor)

	response := fiber.Map{"suggestions": suggestions}
	if ok {
		response["trigger"] = string(active.Kind)
		response["filter"] = active.Filter
	}
	return c.JSON(fiber.Map{"data": response})
}

func (h *MessagesHandler) ownsMessage(c *fiber.Ctx, accountID, messageID string) (bool, error) {
	msgs, err := h.store.List(c.Context(), chat.Filter{})
	if err != nil {
		return false, err
	}
	for _, msg := range msgs {
		if msg.ID == messageID {
			return msg.SenderID == accountID, nil
		}
	}
	// Unknown id: treat as owned so Remove can run its no-op path.
	return true, nil
}

func splitClients(raw string) []string {
	var result []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
