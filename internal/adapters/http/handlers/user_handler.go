package handlers

import (
	"errors"

	"skool-lms/internal/core/services"
	"skool-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and dashboard endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// EditProfileRequest represents profile update request body
type EditProfileRequest struct {
	PhoneNumber        string `json:"phoneNumber"`
	CountryOfResidence string `json:"countryOfResidence"`
}

// Me returns the current user's profile
// @Summary Get current user
// @Description Return the profile of the authenticated user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	return response.Success(c, "Profile fetched successfully", profile)
}

// EditProfile updates the mutable profile fields
// @Summary Edit profile
// @Description Update the authenticated user's phone number and country
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EditProfileRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/edit-profile [patch]
func (h *UserHandler) EditProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req EditProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.PhoneNumber == "" && req.CountryOfResidence == "" {
		return response.BadRequest(c, "Nothing to update")
	}

	if err := h.userService.UpdateProfile(c.Context(), userID, req.PhoneNumber, req.CountryOfResidence); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", nil)
}

// Dashboard aggregates the student dashboard view
// @Summary Get dashboard
// @Description Return the user's profile, application and program in one payload
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/dashboard [get]
func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	dashboard, err := h.userService.GetDashboard(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	return response.Success(c, "Dashboard fetched successfully", dashboard)
}
