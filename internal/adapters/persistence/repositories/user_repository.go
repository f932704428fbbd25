package repositories

import (
	"context"
	"time"

	"skool-lms/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetToken gets a user by password reset token
func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAdmins gets all admin users
func (r *userRepository) GetAdmins(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Where("is_admin = ?", true).Find(&users).Error
	return users, err
}

// GetByIDs gets users matching a set of ids
func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ClearExpiredOTPs clears OTP state on users whose code has expired
func (r *userRepository) ClearExpiredOTPs(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("otp <> '' AND otp_expiration < ?", time.Now()).
		Updates(map[string]interface{}{
			"otp":            "",
			"otp_secret":     "",
			"otp_expiration": nil,
		})
	return result.RowsAffected, result.Error
}

// ClearExpiredResetTokens clears expired password reset tokens
func (r *userRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token IS NOT NULL AND reset_token_expires < ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_token":         nil,
			"reset_token_expires": nil,
		})
	return result.RowsAffected, result.Error
}
