package handlers

import (
	"errors"

	"skool-lms/internal/core/services"
	"skool-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notifyService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifyService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// SetStatusRequest represents read-flag update request body
type SetStatusRequest struct {
	Status bool `json:"status"`
}

// CreateNotificationRequest represents admin notification request body
type CreateNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// CreateForUser lets an admin push a notification to a specific user
// @Summary Create notification
// @Description Create a notification for a specific user
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Target user ID"
// @Param body body CreateNotificationRequest true "Notification content"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/notifications/{userId} [post]
func (h *NotificationHandler) CreateForUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title == "" || req.Message == "" {
		return response.BadRequest(c, "Title and message are required")
	}

	notification, err := h.notifyService.CreateForUser(c.Context(), userID, req.Title, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to create notification")
	}

	return response.Created(c, "Notification created successfully", notification)
}

// List returns the caller's notifications, newest first
// @Summary List notifications
// @Description List the authenticated user's notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	notifications, err := h.notifyService.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	return response.Success(c, "Notifications fetched successfully", notifications)
}

// SetStatus flips a notification's read flag
// @Summary Update notification status
// @Description Mark a notification read or unread
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Param body body SetStatusRequest true "Read flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id} [patch]
func (h *NotificationHandler) SetStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.notifyService.SetStatus(c.Context(), id, req.Status); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to update notification")
	}

	return response.Success(c, "Notification updated successfully", nil)
}

// Delete removes one notification
// @Summary Delete notification
// @Description Remove one notification
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.notifyService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to delete notification")
	}

	return response.Success(c, "Notification deleted successfully", nil)
}
