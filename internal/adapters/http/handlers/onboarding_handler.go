package handlers

import (
	"errors"

	"skool-lms/internal/core/services"
	"skool-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OnboardingHandler handles onboarding and course endpoints
type OnboardingHandler struct {
	onboardingService *services.OnboardingService
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingService *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// OnboardingRequest represents the onboarding form body
type OnboardingRequest struct {
	services.CourseSelection
	services.ApplicantDetails
}

// AddCourseRequest represents course creation request body
type AddCourseRequest struct {
	CourseTitle string `json:"courseTitle"`
}

// Complete records the student's onboarding form
// @Summary Complete onboarding
// @Description Record the one-time onboarding form: program selection plus personal details
// @Tags Onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body OnboardingRequest true "Onboarding form"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/onboarding [post]
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.onboardingService.Complete(c.Context(), userID, &req.CourseSelection, &req.ApplicantDetails)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseTypeRequired):
			return response.BadRequest(c, "Course type is required")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to complete onboarding")
		}
	}

	return response.Created(c, "Onboarding completed successfully", nil)
}

// AddCourse creates a course record for the caller
// @Summary Add course
// @Description Create a course record for the authenticated user
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddCourseRequest true "Course title"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /courses [post]
func (h *OnboardingHandler) AddCourse(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req AddCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CourseTitle == "" {
		return response.BadRequest(c, "Course title is required")
	}

	course, err := h.onboardingService.AddCourse(c.Context(), userID, req.CourseTitle)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to add course")
	}

	return response.Created(c, "Course added successfully", course)
}

// ListCourses lists all course records
// @Summary List courses
// @Description List all course records
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /courses [get]
func (h *OnboardingHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.onboardingService.ListCourses(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list courses")
	}

	return response.Success(c, "Courses fetched successfully", courses)
}

// CheckAvailability reports whether a course is in the catalogue
// @Summary Check course availability
// @Description Report whether a course name is offered
// @Tags Courses
// @Produce json
// @Param course query string true "Course name"
// @Success 200 {object} response.Response
// @Router /courses/availability [get]
func (h *OnboardingHandler) CheckAvailability(c *fiber.Ctx) error {
	course := c.Query("course")
	if course == "" {
		return response.BadRequest(c, "Course name is required")
	}

	available := h.onboardingService.CheckCourseAvailability(course)

	return response.Success(c, "Course availability checked", fiber.Map{
		"course":    course,
		"available": available,
	})
}
