package services

import (
	"context"
	"testing"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUploader records uploads without touching object storage
type fakeUploader struct {
	uploads int
}

func (f *fakeUploader) UploadPassport(ctx context.Context, dataURI string) (string, error) {
	f.uploads++
	return "https://storage.local/passports/test.png", nil
}

func newApplicationService(db *gorm.DB) (*ApplicationService, *fakeUploader) {
	userRepo := repositories.NewUserRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	onboardingRepo := repositories.NewOnboardingRepository(db)
	notifySvc := NewNotificationService(repositories.NewNotificationRepository(db), userRepo)
	uploader := &fakeUploader{}
	return NewApplicationService(appRepo, userRepo, onboardingRepo, uploader, notifySvc), uploader
}

func submitInput() *SubmitInput {
	return &SubmitInput{
		PersonalStatement: "I have always wanted to study computing.",
		Qualifications: []models.Qualification{
			{InstitutionName: "King's College", AreaOfStudy: "Mathematics"},
		},
		AcademicReference:  true,
		FundingInformation: "Self-funded",
		Disability:         "None",
		PassportUpload:     "data:image/png;base64,iVBORw0KGgo=",
	}
}

func TestSubmitApplication(t *testing.T) {
	db := setupTestDB(t)
	svc, uploader := newApplicationService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	admin := createUser(t, db, "admin@example.com", true)

	app, err := svc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "https://storage.local/passports/test.png", app.PassportUpload)
	assert.Equal(t, 1, uploader.uploads)

	// Admins get notified about the new dossier
	notifications, err := repositories.NewNotificationRepository(db).GetByUserID(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "New professional application", notifications[0].Title)
}

func TestSubmitApplication_OnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)

	_, err := svc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)

	_, err = svc.Submit(ctx, user.ID, submitInput())
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestSubmitApplication_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)

	_, err := svc.Submit(context.Background(), "missing-user-id", submitInput())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApproveApplication(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	app, err := svc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, app.ID))

	stored, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)

	// The applicant is told about the decision
	notifications, err := repositories.NewNotificationRepository(db).GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Application approved", notifications[0].Title)
}

func TestRejectApplication(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	app, err := svc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, app.ID))

	stored, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status)
}

func TestReview_DecisionIsFinal(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	app, err := svc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, app.ID))

	// Neither a repeat approval nor a reversal is allowed
	assert.ErrorIs(t, svc.Approve(ctx, app.ID), ErrAlreadyReviewed)
	assert.ErrorIs(t, svc.Reject(ctx, app.ID), ErrAlreadyReviewed)

	stored, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)
}

func TestReview_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Approve(ctx, "missing-id"), ErrApplicationNotFound)
	assert.ErrorIs(t, svc.Reject(ctx, "missing-id"), ErrApplicationNotFound)
}

func TestHasApplied(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)

	applied, _, err := svc.HasApplied(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = svc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)

	applied, _, err = svc.HasApplied(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestListApplications(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := createUser(t, db, email, false)
		_, err := svc.Submit(ctx, user.ID, submitInput())
		require.NoError(t, err)
	}

	apps, total, err := svc.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, apps, 2)
	assert.NotNil(t, apps[0].Applicant, "listing preloads the applicant")

	apps, _, err = svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestDeleteApplications(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newApplicationService(db)
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	app, err := svc.Submit(ctx, user.ID, submitInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, app.ID))
	assert.ErrorIs(t, svc.Delete(ctx, app.ID), ErrApplicationNotFound)

	_, err = svc.Get(ctx, app.ID)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
