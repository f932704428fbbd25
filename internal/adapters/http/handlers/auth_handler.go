package handlers

import (
	"errors"
	"strings"
	"time"

	"skool-lms/internal/config"
	"skool-lms/internal/core/services"
	"skool-lms/internal/pkg/password"
	"skool-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	otpService  *services.OTPService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, otpService *services.OTPService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		otpService:  otpService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest represents OTP verification request body
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// EmailRequest represents a request identified by email only
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents password reset request body
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest represents password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register handles user registration
// @Summary Register new user
// @Description Register a new user and send a verification OTP to their email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.FirstName == "" {
		return response.BadRequest(c, "First name is required")
	}
	if req.LastName == "" {
		return response.BadRequest(c, "Last name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return response.BadRequest(c, "A valid email is required")
	}
	if req.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}
	if req.CountryOfResidence == "" {
		return response.BadRequest(c, "Country of residence is required")
	}
	if err := password.ValidatePassword(req.Password); err != nil {
		return response.BadRequest(c, err.Error())
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "User with this email already exists")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "Successful registration, please check your email for the verification code", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate a user and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookie(c, result.Token)

	return response.Success(c, "Login successful", result)
}

// VerifyOTP handles email verification
// @Summary Verify email OTP
// @Description Confirm the verification code sent to a user's email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "Email and OTP code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.OTP == "" {
		return response.BadRequest(c, "Email and OTP are required")
	}

	if err := h.otpService.Verify(c.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrOTPExpired):
			return response.BadRequest(c, "OTP has expired, please request a new one")
		case errors.Is(err, services.ErrOTPNotFound):
			return response.BadRequest(c, "Invalid OTP")
		default:
			return response.InternalServerError(c, "Failed to verify OTP")
		}
	}

	return response.Success(c, "Email verified successfully", nil)
}

// ResendOTP re-sends the verification code
// @Summary Resend email OTP
// @Description Issue a fresh verification code for an unverified user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	if err := h.authService.ResendOTP(c.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to resend OTP")
		}
	}

	return response.Success(c, "A new verification code has been sent to your email", nil)
}

// ForgotPassword starts the password reset flow
// @Summary Request password reset
// @Description Email a password reset link to the user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	if err := h.authService.ForgotPassword(c.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "No account found for this email")
		default:
			return response.InternalServerError(c, "Failed to send reset link")
		}
	}

	return response.Success(c, "Password reset link sent to your email", nil)
}

// ResetPassword consumes a reset token
// @Summary Reset password
// @Description Set a new password using the token from the reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param body body ResetPasswordRequest true "New password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/forgotpassword/{token} [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return response.BadRequest(c, "Reset token is required")
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := password.ValidatePassword(req.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.authService.ResetPassword(c.Context(), token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrResetTokenInvalid):
			return response.BadRequest(c, "Invalid reset token")
		case errors.Is(err, services.ErrResetTokenExpired):
			return response.BadRequest(c, "Reset token has expired, please request a new one")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.Success(c, "Password reset successfully", nil)
}

// ChangePassword changes the password for a logged-in user
// @Summary Change password
// @Description Change the password after verifying the current one
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/change-password [patch]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CurrentPassword == "" {
		return response.BadRequest(c, "Current password is required")
	}
	if err := password.ValidatePassword(req.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.authService.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// Logout clears the auth cookie
// @Summary Logout user
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: "Lax",
		Path:     "/",
	})
	return response.Success(c, "Logged out successfully", nil)
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: "Lax",
		Path:     "/",
	})
}
