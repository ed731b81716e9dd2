// Package services holds the chat/message business logic shared by the HTTP
// and realtime layers.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
)

// ChatService manages chat pairs, messages, and the authorization to read or
// write them. Both the REST handlers and the websocket hub go through it.
type ChatService struct {
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
}

func NewChatService(chats repositories.ChatRepository, messages repositories.MessageRepository, users repositories.UserRepository) *ChatService {
	return &ChatService{chats: chats, messages: messages, users: users}
}

func canonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// CreateOrGetChat returns the one chat for the unordered pair, creating it on
// first contact. The pair's unique index is the correctness boundary: a lost
// race on insert surfaces as a duplicated key and is resolved by refetching.
func (s *ChatService) CreateOrGetChat(ctx context.Context, requesterID, targetID uint) (*models.Chat, bool, error) {
	if requesterID == targetID {
		return nil, false, apperrors.Validation("cannot create a chat with yourself")
	}

	if _, err := s.users.GetUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.NotFound("user not found")
		}
		return nil, false, err
	}

	userA, userB := canonicalPair(requesterID, targetID)

	chat, err := s.chats.GetByPair(ctx, userA, userB)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	newChat := &models.Chat{UserAID: userA, UserBID: userB, Status: "Active"}
	err = s.chats.Create(ctx, newChat)
	if err == nil {
		return newChat, true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Concurrent first contact for the same pair; the other writer won.
		chat, err = s.chats.GetByPair(ctx, userA, userB)
		if err != nil {
			return nil, false, err
		}
		return chat, false, nil
	}
	return nil, false, err
}

// GetUserChats returns the user's chats that have at least one message, each
// annotated with the other participant's public profile, newest chat first.
func (s *ChatService) GetUserChats(ctx context.Context, userID uint) ([]models.ChatSummary, error) {
	chats, err := s.chats.GetChatsWithMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		other, err := s.users.GetUserByID(chat.OtherUser(userID))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.ChatSummary{Chat: chat, OtherUser: other.ToCompact()})
	}
	return summaries, nil
}

// AuthorizeParticipant fails unless userID is one of the chat's two users.
func (s *ChatService) AuthorizeParticipant(ctx context.Context, chatID, userID uint) (*models.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("chat not found")
		}
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, apperrors.Forbidden("not a participant of this chat")
	}
	return chat, nil
}

// SendMessage persists a message and returns it denormalized with the
// sender's profile. The rich shape comes from an explicit read after the
// write, not from a store-specific returning trick.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID uint, content string) (*models.RichMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("message content cannot be empty")
	}

	if _, err := s.AuthorizeParticipant(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	message := &models.Message{ChatID: chatID, SenderID: senderID, Content: content}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	return s.messages.GetRichByID(ctx, message.ID)
}

// GetChatMessages returns all messages of the chat oldest first, denormalized
// with sender profiles. The requester must be a participant.
func (s *ChatService) GetChatMessages(ctx context.Context, chatID, requesterID uint) ([]models.RichMessage, error) {
	if _, err := s.AuthorizeParticipant(ctx, chatID, requesterID); err != nil {
		return nil, err
	}
	return s.messages.ListByChat(ctx, chatID)
}
