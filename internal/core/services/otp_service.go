package services

import (
	"context"
	"errors"
	"log"
	"time"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"
	"skool-lms/internal/pkg/mailer"

	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

// OTP errors
var (
	ErrOTPNotFound = errors.New("invalid otp")
	ErrOTPExpired  = errors.New("otp expired")
)

// OTPTTL is how long an issued code stays valid
const OTPTTL = 10 * time.Minute

// OTPService manages the one-time-password lifecycle for email
// verification. Codes are time-based (derived from a per-user secret),
// stored on the user row together with their expiry, and consumed
// exactly once.
type OTPService struct {
	userRepo repositories.UserRepository
	mailer   *mailer.Mailer
	now      func() time.Time
}

// NewOTPService creates a new OTP service
func NewOTPService(userRepo repositories.UserRepository, mailer *mailer.Mailer) *OTPService {
	return &OTPService{
		userRepo: userRepo,
		mailer:   mailer,
		now:      time.Now,
	}
}

// Issue generates a fresh secret and code for the user, stores them with
// a 10 minute expiry and emails the code. Re-issuing replaces any
// previous code, so at most one OTP is active per user.
func (s *OTPService) Issue(ctx context.Context, user *models.User) error {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Skool LMS",
		AccountName: user.Email,
	})
	if err != nil {
		return err
	}

	code, err := totp.GenerateCode(key.Secret(), s.now())
	if err != nil {
		return err
	}

	expiry := s.now().Add(OTPTTL)
	user.OTPSecret = key.Secret()
	user.OTP = code
	user.OTPExpiration = &expiry

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// Delivery failure is logged, not surfaced: the code is persisted and
	// the user can request a resend.
	if err := s.mailer.SendOTP(user.Email, code); err != nil {
		log.Printf("⚠️ Failed to send OTP email to %s: %v", user.Email, err)
	}

	return nil
}

// Verify checks the code submitted for an email address. Lookup is keyed
// by user, not by code value, so identical codes issued to two users
// cannot collide. On success the code is cleared and the user is marked
// verified; verification is a one-way transition.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	if user.OTP == "" || user.OTP != code {
		return ErrOTPNotFound
	}

	if user.OTPExpiration == nil || s.now().After(*user.OTPExpiration) {
		return ErrOTPExpired
	}

	user.OTP = ""
	user.OTPSecret = ""
	user.OTPExpiration = nil
	user.IsVerified = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Email verified: %s", user.Email)
	return nil
}
