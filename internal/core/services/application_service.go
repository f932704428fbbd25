package services

import (
	"context"
	"errors"
	"log"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Application errors
var (
	ErrApplicationNotFound = errors.New("professional application not found")
	ErrAlreadyApplied      = errors.New("you have already applied")
	ErrAlreadyReviewed     = errors.New("application has already been reviewed")
)

// PassportUploader stores a passport image and returns its URL
type PassportUploader interface {
	UploadPassport(ctx context.Context, dataURI string) (string, error)
}

// ApplicationService owns the professional application review workflow.
// Status is a closed set: an application starts pending and moves
// exactly once to accepted or rejected.
type ApplicationService struct {
	appRepo        repositories.ApplicationRepository
	userRepo       repositories.UserRepository
	onboardingRepo repositories.OnboardingRepository
	uploader       PassportUploader
	notifyService  *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	onboardingRepo repositories.OnboardingRepository,
	uploader PassportUploader,
	notifyService *NotificationService,
) *ApplicationService {
	return &ApplicationService{
		appRepo:        appRepo,
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
		uploader:       uploader,
		notifyService:  notifyService,
	}
}

// SubmitInput represents application submission input
type SubmitInput struct {
	PersonalStatement            string                 `json:"personalStatement" validate:"required"`
	Qualifications               []models.Qualification `json:"addQualification" validate:"required"`
	AcademicReference            bool                   `json:"academicReference"`
	EmploymentDetails            bool                   `json:"employmentDetails"`
	FundingInformation           string                 `json:"fundingInformation" validate:"required"`
	Disability                   string                 `json:"disability" validate:"required"`
	PassportUpload               string                 `json:"passportUpload" validate:"required"`
	EnglishLanguageQualification bool                   `json:"englishLanguageQualification"`
}

// ApplicationResponse is an application with applicant and program details
type ApplicationResponse struct {
	*models.ProfessionalApplication
	Applicant *models.UserResponse `json:"applicant,omitempty"`
	Programs  []*models.Program    `json:"programs,omitempty"`
}

// Submit creates a new application for a user. A second submission
// returns ErrAlreadyApplied; the unique index on applicant_id backs the
// existence check so two concurrent submissions cannot both land.
func (s *ApplicationService) Submit(ctx context.Context, userID string, input *SubmitInput) (*models.ProfessionalApplication, error) {
	// 1. Applicant must exist
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 2. One application per user
	exists, err := s.appRepo.ExistsByApplicantID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyApplied
	}

	// 3. Store the passport image first; the persisted record carries the
	// object URL, never the raw payload
	passportURL, err := s.uploader.UploadPassport(ctx, input.PassportUpload)
	if err != nil {
		return nil, err
	}

	// 4. Persist with status pending
	app := &models.ProfessionalApplication{
		ApplicantID:                  userID,
		Status:                       models.StatusPending,
		PersonalStatement:            input.PersonalStatement,
		Qualifications:               input.Qualifications,
		AcademicReference:            input.AcademicReference,
		EmploymentDetails:            input.EmploymentDetails,
		FundingInformation:           input.FundingInformation,
		Disability:                   input.Disability,
		PassportUpload:               passportURL,
		EnglishLanguageQualification: input.EnglishLanguageQualification,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	// 5. Let admins know there is a new dossier to review
	s.notifyService.NotifyAdmins(ctx,
		"New professional application",
		user.FirstName+" "+user.LastName+" submitted a professional application")

	log.Printf("✅ Application submitted: %s (user %s)", app.ID, userID)
	return app, nil
}

// Approve moves a pending application to accepted
func (s *ApplicationService) Approve(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusAccepted, "Application approved",
		"Congratulations! Your professional application has been accepted")
}

// Reject moves a pending application to rejected
func (s *ApplicationService) Reject(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusRejected, "Application rejected",
		"Unfortunately your professional application has been rejected")
}

// transition applies a guarded pending -> decided status change and
// notifies the applicant
func (s *ApplicationService) transition(ctx context.Context, id, status, title, message string) error {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}

	if app.IsReviewed() {
		return ErrAlreadyReviewed
	}

	app.Status = status
	if err := s.appRepo.Update(ctx, app); err != nil {
		return err
	}

	s.notifyService.Notify(ctx, app.ApplicantID, title, message)

	log.Printf("✅ Application %s -> %s", id, status)
	return nil
}

// Get fetches one application with applicant and program details
func (s *ApplicationService) Get(ctx context.Context, id string) (*ApplicationResponse, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	return s.toResponse(ctx, app), nil
}

// HasApplied reports whether a user already submitted an application,
// together with their selected program
func (s *ApplicationService) HasApplied(ctx context.Context, userID string) (bool, *models.Program, error) {
	exists, err := s.appRepo.ExistsByApplicantID(ctx, userID)
	if err != nil {
		return false, nil, err
	}

	program, err := s.onboardingRepo.GetProgramByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, err
	}

	return exists, program, nil
}

// List lists applications for admin review, newest first
func (s *ApplicationService) List(ctx context.Context, offset, limit int) ([]*ApplicationResponse, int64, error) {
	apps, total, err := s.appRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, s.toResponse(ctx, app))
	}

	return responses, total, nil
}

// Delete removes one application
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	if _, err := s.appRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}
	return s.appRepo.Delete(ctx, id)
}

// DeleteMany removes a set of applications
func (s *ApplicationService) DeleteMany(ctx context.Context, ids []string) error {
	return s.appRepo.DeleteMany(ctx, ids)
}

func (s *ApplicationService) toResponse(ctx context.Context, app *models.ProfessionalApplication) *ApplicationResponse {
	resp := &ApplicationResponse{ProfessionalApplication: app}

	if app.Applicant != nil {
		resp.Applicant = app.Applicant.ToResponse()
	}

	programs, err := s.onboardingRepo.GetProgramsByUserID(ctx, app.ApplicantID)
	if err == nil {
		resp.Programs = programs
	}

	return resp
}
