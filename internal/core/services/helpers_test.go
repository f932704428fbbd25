package services

import (
	"context"
	"testing"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"
	"skool-lms/internal/config"
	"skool-lms/internal/pkg/mailer"
	"skool-lms/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, models.AutoMigrate(db))

	return db
}

// testMailer logs instead of sending (no SMTP host configured)
func testMailer() *mailer.Mailer {
	return mailer.New("", "", "", "", "test@skool-lms.local", "Skool LMS")
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode:     "dev",
		FrontendURL: "http://localhost:5173",
		JWT:         config.JWTConfig{Secret: "test-secret"},
	}
}

// createUser persists a user with a known password
func createUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := password.Hash("initial-password")
	require.NoError(t, err)

	user := &models.User{
		FirstName:          "Ada",
		LastName:           "Lovelace",
		Email:              email,
		PhoneNumber:        "+4470000000",
		Password:           hash,
		CountryOfResidence: "United Kingdom",
		IsAdmin:            isAdmin,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), user))

	return user
}
