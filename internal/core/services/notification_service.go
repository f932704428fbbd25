package services

import (
	"context"
	"errors"
	"log"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// LivePusher delivers a payload to a connected user in real time.
// Implemented by the websocket hub; delivery to offline users is a no-op
// because the durable copy is already persisted.
type LivePusher interface {
	Push(userID string, payload interface{})
}

// NotificationService manages the user-targeted notification feed
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	pusher           LivePusher
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// SetLivePusher attaches the real-time channel. Called once at startup;
// the service works without one (durable-only delivery).
func (s *NotificationService) SetLivePusher(p LivePusher) {
	s.pusher = p
}

// Notify creates a notification for a user and pushes it live when the
// user is connected
func (s *NotificationService) Notify(ctx context.Context, userID, title, message string) {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("⚠️ Failed to create notification for %s: %v", userID, err)
		return
	}

	if s.pusher != nil {
		s.pusher.Push(userID, notification)
	}
}

// NotifyAdmins fans a notification out to every admin user
func (s *NotificationService) NotifyAdmins(ctx context.Context, title, message string) {
	admins, err := s.userRepo.GetAdmins(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to list admins: %v", err)
		return
	}

	for _, admin := range admins {
		s.Notify(ctx, admin.ID, title, message)
	}
}

// CreateForUser creates a notification for a specific user (admin action)
func (s *NotificationService) CreateForUser(ctx context.Context, userID, title, message string) (*models.Notification, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.Push(userID, notification)
	}

	return notification, nil
}

// List lists a user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.notificationRepo.GetByUserID(ctx, userID)
}

// SetStatus marks a notification read or unread
func (s *NotificationService) SetStatus(ctx context.Context, id string, status bool) error {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	notification.Status = status
	return s.notificationRepo.Update(ctx, notification)
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if _, err := s.notificationRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return s.notificationRepo.Delete(ctx, id)
}
