package repositories

import (
	"context"

	"skool-lms/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	GetAdmins(ctx context.Context) ([]*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ClearExpiredOTPs(ctx context.Context) (int64, error)
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

// ApplicationRepository defines professional application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.ProfessionalApplication) error
	GetByID(ctx context.Context, id string) (*models.ProfessionalApplication, error)
	GetByApplicantID(ctx context.Context, applicantID string) (*models.ProfessionalApplication, error)
	ExistsByApplicantID(ctx context.Context, applicantID string) (bool, error)
	Update(ctx context.Context, app *models.ProfessionalApplication) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	List(ctx context.Context, offset, limit int) ([]*models.ProfessionalApplication, int64, error)
}

// OnboardingRepository defines onboarding/program repository interface
type OnboardingRepository interface {
	CreateProgram(ctx context.Context, program *models.Program) error
	CreateOnboarding(ctx context.Context, onboarding *models.Onboarding) error
	GetProgramByUserID(ctx context.Context, userID string) (*models.Program, error)
	GetProgramsByUserID(ctx context.Context, userID string) ([]*models.Program, error)
}

// CourseRepository defines course repository interface
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	List(ctx context.Context) ([]*models.Course, error)
}

// NotificationRepository defines notification repository interface
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	GetByUserID(ctx context.Context, userID string) ([]*models.Notification, error)
	Update(ctx context.Context, notification *models.Notification) error
	Delete(ctx context.Context, id string) error
}

// ChatRepository defines chat message repository interface
type ChatRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	GetByID(ctx context.Context, id string) (*models.ChatMessage, error)
	GetConversation(ctx context.Context, userA, userB string) ([]*models.ChatMessage, error)
	GetLastMessage(ctx context.Context, userA, userB string) (*models.ChatMessage, error)
	GetCounterpartyIDs(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
