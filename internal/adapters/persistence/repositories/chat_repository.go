package repositories

import (
	"context"

	"skool-lms/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// chatRepository implements ChatRepository interface
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create creates a new chat message
func (r *chatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// GetByID gets a chat message by ID
func (r *chatRepository) GetByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetConversation gets every message between two users, oldest first
func (r *chatRepository) GetConversation(ctx context.Context, userA, userB string) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// GetLastMessage gets the most recent message between two users
func (r *chatRepository) GetLastMessage(ctx context.Context, userA, userB string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetCounterpartyIDs gets the distinct ids of users a user has exchanged
// messages with
func (r *chatRepository) GetCounterpartyIDs(ctx context.Context, userID string) ([]string, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for _, m := range messages {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

// Delete deletes a chat message
func (r *chatRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ChatMessage{}, "id = ?", id).Error
}
