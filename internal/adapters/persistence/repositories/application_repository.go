package repositories

import (
	"context"

	"skool-lms/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new professional application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.ProfessionalApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID with the applicant preloaded
func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.ProfessionalApplication, error) {
	var app models.ProfessionalApplication
	err := r.db.WithContext(ctx).Preload("Applicant").Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByApplicantID gets the application submitted by a user
func (r *applicationRepository) GetByApplicantID(ctx context.Context, applicantID string) (*models.ProfessionalApplication, error) {
	var app models.ProfessionalApplication
	err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ExistsByApplicantID checks if a user already has an application
func (r *applicationRepository) ExistsByApplicantID(ctx context.Context, applicantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProfessionalApplication{}).
		Where("applicant_id = ?", applicantID).Count(&count).Error
	return count > 0, err
}

// Update updates an application
func (r *applicationRepository) Update(ctx context.Context, app *models.ProfessionalApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// Delete deletes an application
func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ProfessionalApplication{}, "id = ?", id).Error
}

// DeleteMany deletes a set of applications
func (r *applicationRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.db.WithContext(ctx).Delete(&models.ProfessionalApplication{}, "id IN ?", ids).Error
}

// List lists applications with pagination, applicants preloaded
func (r *applicationRepository) List(ctx context.Context, offset, limit int) ([]*models.ProfessionalApplication, int64, error) {
	var apps []*models.ProfessionalApplication
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.ProfessionalApplication{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).Preload("Applicant").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}
