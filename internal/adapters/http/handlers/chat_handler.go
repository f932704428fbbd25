package handlers

import (
	"errors"

	"skool-lms/internal/core/services"
	"skool-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles chat history endpoints. Live delivery happens on
// the websocket listener, not here.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessageRequest represents chat message request body
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// SendMessage persists a directed chat message
// @Summary Send chat message
// @Description Persist a message from the authenticated user to another user
// @Tags Chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendMessageRequest true "Message"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /chats [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.ReceiverID == "" {
		return response.BadRequest(c, "Receiver is required")
	}
	if req.Message == "" {
		return response.BadRequest(c, "Message cannot be empty")
	}

	message, err := h.chatService.SaveMessage(c.Context(), userID, req.ReceiverID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrChatUserNotFound) {
			return response.NotFound(c, "Receiver not found")
		}
		return response.InternalServerError(c, "Failed to send message")
	}

	return response.Created(c, "Message sent successfully", message)
}

// GetConversation returns the full history with another user
// @Summary Get conversation
// @Description Return every message between the caller and another user, oldest first
// @Tags Chats
// @Produce json
// @Security BearerAuth
// @Param receiverId path string true "Other party's user ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /chats/{receiverId} [get]
func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	receiverID := c.Params("receiverId")

	messages, recipient, err := h.chatService.GetConversation(c.Context(), receiverID, userID)
	if err != nil {
		if errors.Is(err, services.ErrChatUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch conversation")
	}

	return response.Success(c, "Conversation fetched successfully", fiber.Map{
		"messages":  messages,
		"recipient": recipient,
	})
}

// GetContacts lists who the caller can chat with
// @Summary List chat contacts
// @Description List chat contacts annotated with the last message exchanged
// @Tags Chats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /chats [get]
func (h *ChatHandler) GetContacts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	contacts, err := h.chatService.GetContacts(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrChatUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch contacts")
	}

	return response.Success(c, "Contacts fetched successfully", contacts)
}

// DeleteMessage removes one chat message
// @Summary Delete chat message
// @Description Remove one message from the history
// @Tags Chats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /chats/{id} [delete]
func (h *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.chatService.DeleteMessage(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrChatMessageNotFound) {
			return response.NotFound(c, "Message not found")
		}
		return response.InternalServerError(c, "Failed to delete message")
	}

	return response.Success(c, "Message deleted successfully", nil)
}
