package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"
	"skool-lms/internal/config"
	"skool-lms/internal/pkg/jwt"
	"skool-lms/internal/pkg/mailer"
	"skool-lms/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid")
	ErrResetTokenExpired  = errors.New("password reset token has expired")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// resetTokenTTL is how long a password reset link stays usable
const resetTokenTTL = time.Hour

// AuthService handles registration, login and credential recovery
type AuthService struct {
	userRepo       repositories.UserRepository
	onboardingRepo repositories.OnboardingRepository
	otpService     *OTPService
	mailer         *mailer.Mailer
	cfg            *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	onboardingRepo repositories.OnboardingRepository,
	otpService *OTPService,
	mailer *mailer.Mailer,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
		otpService:     otpService,
		mailer:         mailer,
		cfg:            cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FirstName          string `json:"firstName" validate:"required"`
	LastName           string `json:"lastName" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	PhoneNumber        string `json:"phoneNumber" validate:"required"`
	Password           string `json:"password" validate:"required,min=8"`
	CountryOfResidence string `json:"countryOfResidence" validate:"required"`
	IsAdmin            bool   `json:"isAdmin"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult represents the outcome of a successful login
type LoginResult struct {
	User        *models.UserResponse `json:"user"`
	Token       string               `json:"token"`
	IsAdmin     bool                 `json:"isAdmin"`
	IsOnboarded bool                 `json:"isOnboarded"`
}

// Register registers a new user and kicks off email verification
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	// 1. Check if email already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 2. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create user
	user := &models.User{
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Email:              strings.ToLower(input.Email),
		PhoneNumber:        input.PhoneNumber,
		Password:           hashedPassword,
		CountryOfResidence: input.CountryOfResidence,
		IsAdmin:            input.IsAdmin,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 4. Issue verification OTP (stores code + expiry, sends email)
	if err := s.otpService.Issue(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and issues a session token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Issue session token (1 hour, no refresh)
	token, err := jwt.Generate(user.ID, user.IsAdmin, s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		User:    user.ToResponse(),
		Token:   token,
		IsAdmin: user.IsAdmin,
	}

	// 4. Students additionally report onboarding state
	if !user.IsAdmin {
		_, err := s.onboardingRepo.GetProgramByUserID(ctx, user.ID)
		switch {
		case err == nil:
			result.IsOnboarded = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			result.IsOnboarded = false
		default:
			return nil, err
		}
	}

	log.Printf("✅ User logged in: %s", user.Email)
	return result, nil
}

// ForgotPassword issues a reset token and emails the reset link
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := password.NewResetToken()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpires = &expiry

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	link := s.cfg.FrontendURL + "/resetpassword/" + token
	if err := s.mailer.SendPasswordReset(user.Email, link); err != nil {
		return err
	}

	log.Printf("✅ Password reset link sent: %s", user.Email)
	return nil
}

// ResetPassword consumes a reset token and sets a new password
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		return ErrResetTokenExpired
	}

	hashedPassword, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	user.ResetToken = nil
	user.ResetTokenExpires = nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password reset completed: %s", user.Email)
	return nil
}

// ChangePassword changes the password for an authenticated user after
// checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !password.Verify(currentPassword, user.Password) {
		return ErrWrongPassword
	}

	hashedPassword, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// ResendOTP re-issues the verification code for an unverified user
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.otpService.Issue(ctx, user)
}
