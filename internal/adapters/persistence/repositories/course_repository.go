package repositories

import (
	"context"

	"skool-lms/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// courseRepository implements CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// List lists all courses
func (r *courseRepository) List(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).Find(&courses).Error
	return courses, err
}
