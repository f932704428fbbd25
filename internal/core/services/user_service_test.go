package services

import (
	"context"
	"testing"

	"skool-lms/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(
		repositories.NewUserRepository(db),
		repositories.NewApplicationRepository(db),
		repositories.NewOnboardingRepository(db),
	)
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "Ada", profile.FirstName)

	_, err = svc.GetProfile(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)

	require.NoError(t, svc.UpdateProfile(ctx, user.ID, "+15550001111", "Canada"))

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", profile.PhoneNumber)
	assert.Equal(t, "Canada", profile.CountryOfResidence)
}

func TestGetDashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)

	// Fresh account: profile only
	dashboard, err := svc.GetDashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, dashboard.User.ID)
	assert.Nil(t, dashboard.Application)
	assert.Nil(t, dashboard.Program)

	// After onboarding and applying, both sections fill in
	onboardingSvc := newOnboardingService(db)
	require.NoError(t, onboardingSvc.Complete(ctx, user.ID,
		&CourseSelection{CourseType: "Undergraduate", CourseSearch: "Biology"},
		&ApplicantDetails{Gender: "Female"},
	))
	appSvc, _ := newApplicationService(db)
	_, err = appSvc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)

	dashboard, err = svc.GetDashboard(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, dashboard.Application)
	require.NotNil(t, dashboard.Program)
	assert.Equal(t, "Biology", dashboard.Program.CourseSearch)
}
