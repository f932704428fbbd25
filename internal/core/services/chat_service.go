package services

import (
	"context"
	"errors"
	"time"

	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Chat errors
var (
	ErrChatMessageNotFound = errors.New("chat message not found")
	ErrChatUserNotFound    = errors.New("sender or receiver not found")
)

// ChatService manages durable chat history between students and admins.
// Live delivery is the websocket hub's job; every message is persisted
// here regardless of whether the receiver was connected.
type ChatService struct {
	chatRepo repositories.ChatRepository
	userRepo repositories.UserRepository
	appRepo  repositories.ApplicationRepository
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	appRepo repositories.ApplicationRepository,
) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		appRepo:  appRepo,
	}
}

// ConversationEntry is one message formatted for the conversation view
type ConversationEntry struct {
	ID        string       `json:"id"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"createdAt"`
	Sender    *ChatPartyID `json:"sender"`
	Receiver  *ChatPartyID `json:"receiver"`
}

// ChatPartyID identifies one side of a conversation
type ChatPartyID struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ChatContact is a user the caller can chat with, annotated with the
// last message exchanged
type ChatContact struct {
	ID                           string     `json:"id"`
	FirstName                    string     `json:"firstName"`
	LastName                     string     `json:"lastName"`
	Email                        string     `json:"email"`
	PhoneNumber                  string     `json:"phoneNumber"`
	CountryOfResidence           string     `json:"countryOfResidence"`
	CreatedAt                    time.Time  `json:"createdAt"`
	PassportUpload               string     `json:"passportUpload,omitempty"`
	LastMessage                  *string    `json:"lastMessage"`
	LastMessageCreatedAt         *time.Time `json:"lastMessageCreatedAt"`
	LastMessageSentByCurrentUser *bool      `json:"lastMessageSentByCurrentUser"`
}

// SaveMessage persists a directed message after checking both parties
// exist. Used by the HTTP handler and by the websocket relay.
func (s *ChatService) SaveMessage(ctx context.Context, senderID, receiverID, text string) (*models.ChatMessage, error) {
	if _, err := s.userRepo.GetByID(ctx, senderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatUserNotFound
		}
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatUserNotFound
		}
		return nil, err
	}

	message := &models.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    text,
	}

	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// GetConversation returns every message between two users, oldest first,
// together with the recipient's profile
func (s *ChatService) GetConversation(ctx context.Context, receiverID, senderID string) ([]*ConversationEntry, *models.UserResponse, error) {
	recipient, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrChatUserNotFound
		}
		return nil, nil, err
	}

	messages, err := s.chatRepo.GetConversation(ctx, receiverID, senderID)
	if err != nil {
		return nil, nil, err
	}

	conversation := make([]*ConversationEntry, 0, len(messages))
	for _, m := range messages {
		entry := &ConversationEntry{
			ID:        m.ID,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		}
		if m.Sender != nil {
			entry.Sender = &ChatPartyID{ID: m.Sender.ID, FirstName: m.Sender.FirstName, LastName: m.Sender.LastName}
		}
		if m.Receiver != nil {
			entry.Receiver = &ChatPartyID{ID: m.Receiver.ID, FirstName: m.Receiver.FirstName, LastName: m.Receiver.LastName}
		}
		conversation = append(conversation, entry)
	}

	return conversation, recipient.ToResponse(), nil
}

// GetContacts lists who a user can chat with. Admins see everyone they
// have exchanged messages with; students always see the admins.
func (s *ChatService) GetContacts(ctx context.Context, userID string) ([]*ChatContact, error) {
	requester, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatUserNotFound
		}
		return nil, err
	}

	var users []*models.User
	if requester.IsAdmin {
		ids, err := s.chatRepo.GetCounterpartyIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			users, err = s.userRepo.GetByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
		}
	} else {
		users, err = s.userRepo.GetAdmins(ctx)
		if err != nil {
			return nil, err
		}
	}

	contacts := make([]*ChatContact, 0, len(users))
	for _, u := range users {
		contact := &ChatContact{
			ID:                 u.ID,
			FirstName:          u.FirstName,
			LastName:           u.LastName,
			Email:              u.Email,
			PhoneNumber:        u.PhoneNumber,
			CountryOfResidence: u.CountryOfResidence,
			CreatedAt:          u.CreatedAt,
		}

		// Students' avatars come from their application's passport image
		if !u.IsAdmin {
			if app, err := s.appRepo.GetByApplicantID(ctx, u.ID); err == nil {
				contact.PassportUpload = app.PassportUpload
			}
		}

		if last, err := s.chatRepo.GetLastMessage(ctx, userID, u.ID); err == nil {
			contact.LastMessage = &last.Message
			contact.LastMessageCreatedAt = &last.CreatedAt
			sentByCurrent := last.SenderID == userID
			contact.LastMessageSentByCurrentUser = &sentByCurrent
		}

		contacts = append(contacts, contact)
	}

	return contacts, nil
}

// DeleteMessage removes one message
func (s *ChatService) DeleteMessage(ctx context.Context, id string) error {
	if _, err := s.chatRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatMessageNotFound
		}
		return err
	}
	return s.chatRepo.Delete(ctx, id)
}
