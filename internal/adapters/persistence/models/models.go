package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Users & Credentials
// ============================================================

// User represents users table
type User struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName          string     `gorm:"size:100;not null" json:"firstName"`
	LastName           string     `gorm:"size:100;not null" json:"lastName"`
	Email              string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PhoneNumber        string     `gorm:"size:30;not null" json:"phoneNumber"`
	Password           string     `gorm:"size:255;not null" json:"-"`
	CountryOfResidence string     `gorm:"size:100;not null" json:"countryOfResidence"`
	OTP                string     `gorm:"size:10" json:"-"`
	OTPSecret          string     `gorm:"size:64" json:"-"`
	OTPExpiration      *time.Time `json:"-"`
	IsVerified         bool       `gorm:"default:false" json:"isVerified"`
	IsAdmin            bool       `gorm:"default:false" json:"isAdmin"`
	ResetToken         *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpires  *time.Time `json:"-"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a uuid primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasActiveOTP reports whether a non-expired OTP is pending for the user
func (u *User) HasActiveOTP() bool {
	return u.OTP != "" && u.OTPExpiration != nil && time.Now().Before(*u.OTPExpiration)
}

// UserResponse DTO
type UserResponse struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phoneNumber"`
	CountryOfResidence string    `json:"countryOfResidence"`
	IsVerified         bool      `json:"isVerified"`
	IsAdmin            bool      `json:"isAdmin"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		PhoneNumber:        u.PhoneNumber,
		CountryOfResidence: u.CountryOfResidence,
		IsVerified:         u.IsVerified,
		IsAdmin:            u.IsAdmin,
		CreatedAt:          u.CreatedAt,
	}
}

// ============================================================
// Professional Applications
// ============================================================

// Application statuses. Transitions are guarded: only a pending
// application may be accepted or rejected.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Qualification is one entry of an application's qualification list,
// stored as JSON on the application row
type Qualification struct {
	InstitutionName      string `json:"institutionName"`
	AreaOfStudy          string `json:"areaOfStudy"`
	YearOfGraduation     string `json:"yearOfGraduation"`
	Grade                string `json:"grade"`
	QualificationType    string `json:"qualificationType"`
	CountryOfInstitution string `json:"countryOfInstitution"`
}

// ProfessionalApplication represents professional_applications table.
// The unique index on ApplicantID enforces one application per user at
// the storage layer, closing the submit/submit race.
type ProfessionalApplication struct {
	ID                           string         `gorm:"primaryKey;size:36" json:"id"`
	ApplicantID                  string         `gorm:"uniqueIndex;size:36;not null" json:"applicantId"`
	Status                       string         `gorm:"size:20;not null;default:'pending'" json:"status"`
	PersonalStatement            string         `gorm:"type:text" json:"personalStatement"`
	Qualifications               []Qualification `gorm:"serializer:json" json:"addQualification"`
	AcademicReference            bool           `json:"academicReference"`
	EmploymentDetails            bool           `json:"employmentDetails"`
	FundingInformation           string         `gorm:"type:text" json:"fundingInformation"`
	Disability                   string         `gorm:"type:text" json:"disability"`
	PassportUpload               string         `gorm:"size:500" json:"passportUpload"`
	EnglishLanguageQualification bool           `json:"englishLanguageQualification"`
	CreatedAt                    time.Time      `gorm:"autoCreateTime" json:"createdAt"`

	Applicant *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}

func (ProfessionalApplication) TableName() string {
	return "professional_applications"
}

func (a *ProfessionalApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsReviewed reports whether the application has left the pending state
func (a *ProfessionalApplication) IsReviewed() bool {
	return a.Status != StatusPending
}

// ============================================================
// Onboarding & Programs
// ============================================================

// Program represents per-user course selection captured at onboarding.
// Created once; there is no update endpoint.
type Program struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	UserID       string `gorm:"index;size:36;not null" json:"userId"`
	CourseType   string `gorm:"size:100;not null" json:"courseType"`
	StudyMode    string `gorm:"size:100;not null" json:"studyMode"`
	CourseSearch string `gorm:"size:200;not null" json:"courseSearch"`
	EntryYear    string `gorm:"size:10;not null" json:"entryYear"`
	EntryMonth   string `gorm:"size:20;not null" json:"entryMonth"`
}

func (Program) TableName() string {
	return "programs"
}

func (p *Program) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Onboarding represents personal onboarding facts captured alongside
// the program selection
type Onboarding struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	UserID       string `gorm:"index;size:36;not null" json:"userId"`
	Gender       string `gorm:"size:20" json:"gender"`
	BirthCountry string `gorm:"size:100" json:"birthCountry"`
	Nationality  string `gorm:"size:100" json:"nationality"`
}

func (Onboarding) TableName() string {
	return "onboardings"
}

func (o *Onboarding) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Course represents courses table
type Course struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"index;size:36;not null" json:"userId"`
	CourseTitle string    `gorm:"size:200;not null" json:"courseTitle"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Notifications
// ============================================================

// Notification represents notifications table. Status is the read flag.
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"userId"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    bool      `gorm:"default:false" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Chat
// ============================================================

// ChatMessage represents chat_messages table. A conversation is every
// message between a sender/receiver pair ordered by creation time.
type ChatMessage struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string    `gorm:"index;size:36;not null" json:"senderId"`
	ReceiverID string    `gorm:"index;size:36;not null" json:"receiverId"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ProfessionalApplication{},
		&Program{},
		&Onboarding{},
		&Course{},
		&Notification{},
		&ChatMessage{},
	)
}
