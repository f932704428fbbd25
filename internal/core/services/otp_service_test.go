package services

import (
	"context"
	"testing"
	"time"

	"skool-lms/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPIssueAndVerify(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	svc := NewOTPService(userRepo, testMailer())
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	require.NoError(t, svc.Issue(ctx, user))

	stored, err := userRepo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.OTP)
	require.NotEmpty(t, stored.OTPSecret)
	require.NotNil(t, stored.OTPExpiration)
	assert.True(t, stored.HasActiveOTP())
	assert.False(t, stored.IsVerified)

	require.NoError(t, svc.Verify(ctx, "ada@example.com", stored.OTP))

	verified, err := userRepo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.OTP)
	assert.Empty(t, verified.OTPSecret)
	assert.Nil(t, verified.OTPExpiration)
}

func TestOTPVerify_WrongCode(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	svc := NewOTPService(userRepo, testMailer())
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	require.NoError(t, svc.Issue(ctx, user))

	err := svc.Verify(ctx, "ada@example.com", "000000x")
	assert.ErrorIs(t, err, ErrOTPNotFound)

	stored, err := userRepo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
}

func TestOTPVerify_UnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPService(repositories.NewUserRepository(db), testMailer())

	err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPVerify_CodeCannotBeReplayed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPService(repositories.NewUserRepository(db), testMailer())
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	require.NoError(t, svc.Issue(ctx, user))
	code := user.OTP

	require.NoError(t, svc.Verify(ctx, "ada@example.com", code))

	err := svc.Verify(ctx, "ada@example.com", code)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPVerify_ExpiryBoundary(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	svc := NewOTPService(userRepo, testMailer())
	ctx := context.Background()

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	user := createUser(t, db, "ada@example.com", false)
	require.NoError(t, svc.Issue(ctx, user))
	code := user.OTP

	// Just inside the window
	svc.now = func() time.Time { return issuedAt.Add(OTPTTL - time.Second) }
	require.NoError(t, svc.Verify(ctx, "ada@example.com", code))
}

func TestOTPVerify_Expired(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	svc := NewOTPService(userRepo, testMailer())
	ctx := context.Background()

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	user := createUser(t, db, "ada@example.com", false)
	require.NoError(t, svc.Issue(ctx, user))
	code := user.OTP

	svc.now = func() time.Time { return issuedAt.Add(OTPTTL + time.Second) }
	err := svc.Verify(ctx, "ada@example.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPReissueReplacesPrevious(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	svc := NewOTPService(userRepo, testMailer())
	ctx := context.Background()

	user := createUser(t, db, "ada@example.com", false)
	require.NoError(t, svc.Issue(ctx, user))
	firstSecret := user.OTPSecret

	require.NoError(t, svc.Issue(ctx, user))

	stored, err := userRepo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, firstSecret, stored.OTPSecret)
}
