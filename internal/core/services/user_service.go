package services

import (
	"context"
	"errors"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// UserService handles profile and dashboard queries
type UserService struct {
	userRepo       repositories.UserRepository
	appRepo        repositories.ApplicationRepository
	onboardingRepo repositories.OnboardingRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	appRepo repositories.ApplicationRepository,
	onboardingRepo repositories.OnboardingRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		appRepo:        appRepo,
		onboardingRepo: onboardingRepo,
	}
}

// Dashboard aggregates everything the student dashboard shows
type Dashboard struct {
	User        *models.UserResponse            `json:"userDetails"`
	Application *models.ProfessionalApplication `json:"applicationDetails"`
	Program     *models.Program                 `json:"courseDetails"`
}

// GetProfile returns a user's profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfile updates the mutable profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID, phoneNumber, countryOfResidence string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.PhoneNumber = phoneNumber
	user.CountryOfResidence = countryOfResidence

	return s.userRepo.Update(ctx, user)
}

// GetDashboard returns the user together with their application and
// selected program, either of which may be absent
func (s *UserService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	dashboard := &Dashboard{User: user.ToResponse()}

	if app, err := s.appRepo.GetByApplicantID(ctx, userID); err == nil {
		dashboard.Application = app
	}

	if program, err := s.onboardingRepo.GetProgramByUserID(ctx, userID); err == nil {
		dashboard.Program = program
	}

	return dashboard, nil
}
