package repositories

import (
	"context"
	"time"

	"github.com/wavegram/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetRichByID(ctx context.Context, id uint) (*models.RichMessage, error)
	ListByChat(ctx context.Context, chatID uint) ([]models.RichMessage, error)
	CountByChat(ctx context.Context, chatID uint) (int64, error)
}

type postgresMessageRepository struct {
	db *gorm.DB
}

func NewPostgresMessageRepository(db *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) Create(ctx context.Context, message *models.Message) error {
	message.CreatedAt = time.Now()
	if message.Status == "" {
		message.Status = "Sent"
	}
	return r.db.WithContext(ctx).Create(message).Error
}

const richMessageSelect = "messages.id, messages.chat_id, messages.sender_id, messages.content, messages.status, messages.created_at, " +
	"users.username AS sender_username, users.name AS sender_name, users.avatar_id AS sender_avatar_id"

// GetRichByID re-reads a message joined with its sender's profile. Kept as an
// explicit read-after-write so the pattern works on any SQL store.
func (r *postgresMessageRepository) GetRichByID(ctx context.Context, id uint) (*models.RichMessage, error) {
	var msg models.RichMessage
	err := r.db.WithContext(ctx).
		Table("messages").
		Select(richMessageSelect).
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("messages.id = ?", id).
		Take(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByChat returns all messages of a chat ordered oldest first.
func (r *postgresMessageRepository) ListByChat(ctx context.Context, chatID uint) ([]models.RichMessage, error) {
	var msgs []models.RichMessage
	err := r.db.WithContext(ctx).
		Table("messages").
		Select(richMessageSelect).
		Joins("JOIN users ON users.id = messages.sender_id").
		Where("messages.chat_id = ?", chatID).
		Order("messages.created_at ASC, messages.id ASC").
		Scan(&msgs).Error
	return msgs, err
}

func (r *postgresMessageRepository) CountByChat(ctx context.Context, chatID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("chat_id = ?", chatID).Count(&count).Error
	return count, err
}
