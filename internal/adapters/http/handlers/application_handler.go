package handlers

import (
	"context"
	"errors"

	"skool-lms/internal/core/services"
	"skool-lms/internal/pkg/pagination"
	"skool-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles professional application endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// DeleteManyRequest represents bulk delete request body
type DeleteManyRequest struct {
	IDs []string `json:"ids"`
}

// Submit handles application submission
// @Summary Submit professional application
// @Description Submit the authenticated user's professional application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /professional-application [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req services.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.PersonalStatement == "" {
		return response.BadRequest(c, "Personal statement is required")
	}
	if len(req.Qualifications) == 0 {
		return response.BadRequest(c, "At least one qualification is required")
	}
	if req.PassportUpload == "" {
		return response.BadRequest(c, "Passport upload is required")
	}

	app, err := h.appService.Submit(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrAlreadyApplied):
			return response.Conflict(c, "You have already submitted an application")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted successfully", app)
}

// Get fetches one application
// @Summary Get application
// @Description Fetch one application with applicant and program details
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /professional-application/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	app, err := h.appService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	return response.Success(c, "Application fetched successfully", app)
}

// HasApplied reports the caller's application state
// @Summary Check application state
// @Description Report whether the authenticated user already applied
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /professional-application/status [get]
func (h *ApplicationHandler) HasApplied(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	applied, program, err := h.appService.HasApplied(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check application status")
	}

	return response.Success(c, "Application status fetched", fiber.Map{
		"hasApplied": applied,
		"program":    program,
	})
}

// List lists applications for admin review
// @Summary List applications
// @Description List all applications, newest first, paginated
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	apps, total, err := h.appService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications fetched successfully",
		pagination.NewResponse(apps, params, total))
}

// Approve accepts a pending application
// @Summary Approve application
// @Description Move a pending application to accepted
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /approve-application/{id} [post]
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.appService.Approve, "Application approved successfully")
}

// Reject declines a pending application
// @Summary Reject application
// @Description Move a pending application to rejected
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reject-application/{id} [post]
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.appService.Reject, "Application rejected successfully")
}

func (h *ApplicationHandler) review(c *fiber.Ctx, decide func(ctx context.Context, id string) error, message string) error {
	id := c.Params("id")

	if err := decide(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrAlreadyReviewed):
			return response.Conflict(c, "Application has already been reviewed")
		default:
			return response.InternalServerError(c, "Failed to review application")
		}
	}

	return response.Success(c, message, nil)
}

// Delete removes one application
// @Summary Delete application
// @Description Remove one application record
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.appService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to delete application")
	}

	return response.Success(c, "Application deleted successfully", nil)
}

// DeleteMany removes a set of applications
// @Summary Delete applications
// @Description Remove several application records at once
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteManyRequest true "Application IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/applications [delete]
func (h *ApplicationHandler) DeleteMany(c *fiber.Ctx) error {
	var req DeleteManyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if len(req.IDs) == 0 {
		return response.BadRequest(c, "No application IDs provided")
	}

	if err := h.appService.DeleteMany(c.Context(), req.IDs); err != nil {
		return response.InternalServerError(c, "Failed to delete applications")
	}

	return response.Success(c, "Applications deleted successfully", nil)
}
