package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Onboarding errors
var (
	ErrCourseTypeRequired = errors.New("course type is required")
)

// availableCourses is the fixed catalogue used by the availability check
var availableCourses = []string{
	"Accounting",
	"Biology",
	"Computer Science",
	"Economics",
}

// OnboardingService captures a student's one-time onboarding facts and
// manages course records
type OnboardingService struct {
	onboardingRepo repositories.OnboardingRepository
	courseRepo     repositories.CourseRepository
	userRepo       repositories.UserRepository
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(
	onboardingRepo repositories.OnboardingRepository,
	courseRepo repositories.CourseRepository,
	userRepo repositories.UserRepository,
) *OnboardingService {
	return &OnboardingService{
		onboardingRepo: onboardingRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
	}
}

// CourseSelection is the program part of the onboarding form
type CourseSelection struct {
	CourseType   string `json:"courseType"`
	StudyMode    string `json:"studyMode"`
	CourseSearch string `json:"courseSearch"`
	EntryYear    string `json:"entryYear"`
	EntryMonth   string `json:"entryMonth"`
}

// ApplicantDetails is the personal part of the onboarding form
type ApplicantDetails struct {
	Gender       string `json:"gender"`
	BirthCountry string `json:"birthCountry"`
	Nationality  string `json:"nationality"`
}

// Complete records a user's onboarding: one program selection plus the
// personal details, created together and immutable afterwards
func (s *OnboardingService) Complete(ctx context.Context, userID string, course *CourseSelection, details *ApplicantDetails) error {
	if course.CourseType == "" {
		return ErrCourseTypeRequired
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	program := &models.Program{
		UserID:       userID,
		CourseType:   course.CourseType,
		StudyMode:    course.StudyMode,
		CourseSearch: course.CourseSearch,
		EntryYear:    course.EntryYear,
		EntryMonth:   course.EntryMonth,
	}
	if err := s.onboardingRepo.CreateProgram(ctx, program); err != nil {
		return err
	}

	onboarding := &models.Onboarding{
		UserID:       userID,
		Gender:       details.Gender,
		BirthCountry: details.BirthCountry,
		Nationality:  details.Nationality,
	}
	if err := s.onboardingRepo.CreateOnboarding(ctx, onboarding); err != nil {
		return err
	}

	log.Printf("✅ Onboarding completed: user %s", userID)
	return nil
}

// AddCourse creates a course record for a user
func (s *OnboardingService) AddCourse(ctx context.Context, userID, courseTitle string) (*models.Course, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	course := &models.Course{
		UserID:      userID,
		CourseTitle: courseTitle,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// ListCourses lists all course records
func (s *OnboardingService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.List(ctx)
}

// CheckCourseAvailability reports whether a course name is in the
// catalogue
func (s *OnboardingService) CheckCourseAvailability(courseName string) bool {
	for _, c := range availableCourses {
		if strings.EqualFold(c, courseName) {
			return true
		}
	}
	return false
}
