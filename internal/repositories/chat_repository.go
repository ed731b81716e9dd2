package repositories

import (
	"context"
	"time"

	"github.com/wavegram/backend/internal/models"
	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat data operations. Callers pass
// the pair already canonicalized (userA < userB); the unique index on the
// pair is the authority for one-chat-per-pair.
type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	GetByPair(ctx context.Context, userA, userB uint) (*models.Chat, error)
	GetChatsWithMessages(ctx context.Context, userID uint) ([]models.Chat, error)
}

type postgresChatRepository struct {
	db *gorm.DB
}

func NewPostgresChatRepository(db *gorm.DB) ChatRepository {
	return &postgresChatRepository{db: db}
}

// Create inserts a chat row. A concurrent insert for the same pair surfaces
// as gorm.ErrDuplicatedKey; the service resolves that by refetching.
func (r *postgresChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	chat.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *postgresChatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *postgresChatRepository) GetByPair(ctx context.Context, userA, userB uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", userA, userB).
		First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChatsWithMessages returns the user's chats that have at least one
// message, newest chat first. Empty chats stay hidden.
func (r *postgresChatRepository) GetChatsWithMessages(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Where("EXISTS (SELECT 1 FROM messages WHERE messages.chat_id = chats.id)").
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}
