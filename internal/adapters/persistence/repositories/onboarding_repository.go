package repositories

import (
	"context"

	"skool-lms/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// onboardingRepository implements OnboardingRepository interface
type onboardingRepository struct {
	db *gorm.DB
}

// NewOnboardingRepository creates a new onboarding repository
func NewOnboardingRepository(db *gorm.DB) OnboardingRepository {
	return &onboardingRepository{db: db}
}

// CreateProgram creates a new program record
func (r *onboardingRepository) CreateProgram(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

// CreateOnboarding creates a new onboarding record
func (r *onboardingRepository) CreateOnboarding(ctx context.Context, onboarding *models.Onboarding) error {
	return r.db.WithContext(ctx).Create(onboarding).Error
}

// GetProgramByUserID gets the first program selected by a user
func (r *onboardingRepository) GetProgramByUserID(ctx context.Context, userID string) (*models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// GetProgramsByUserID gets all programs selected by a user
func (r *onboardingRepository) GetProgramsByUserID(ctx context.Context, userID string) ([]*models.Program, error) {
	var programs []*models.Program
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&programs).Error
	return programs, err
}
