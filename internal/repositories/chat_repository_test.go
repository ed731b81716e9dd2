package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/repositories"
)

func TestChatRepository_CreateAndGetByPair(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresChatRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	chat := &models.Chat{UserAID: alice.ID, UserBID: bob.ID, Status: "Active"}
	require.NoError(t, repo.Create(ctx, chat))
	assert.NotZero(t, chat.ID)
	assert.False(t, chat.CreatedAt.IsZero())

	found, err := repo.GetByPair(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, found.ID)
}

func TestChatRepository_DuplicatePairRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresChatRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Chat{UserAID: alice.ID, UserBID: bob.ID}))

	err := repo.Create(ctx, &models.Chat{UserAID: alice.ID, UserBID: bob.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestChatRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPostgresChatRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestChatRepository_GetChatsWithMessages(t *testing.T) {
	db := setupTestDB(t)
	chatRepo := repositories.NewPostgresChatRepository(db)
	msgRepo := repositories.NewPostgresMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	withMessages := &models.Chat{UserAID: alice.ID, UserBID: bob.ID}
	require.NoError(t, chatRepo.Create(ctx, withMessages))
	require.NoError(t, msgRepo.Create(ctx, &models.Message{
		ChatID: withMessages.ID, SenderID: alice.ID, Content: "hey",
	}))

	// A chat with no messages yet must not show up in either user's list.
	empty := &models.Chat{UserAID: alice.ID, UserBID: carol.ID}
	require.NoError(t, chatRepo.Create(ctx, empty))

	chats, err := chatRepo.GetChatsWithMessages(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, withMessages.ID, chats[0].ID)

	chats, err = chatRepo.GetChatsWithMessages(ctx, carol.ID)
	require.NoError(t, err)
	assert.Empty(t, chats)

	chats, err = chatRepo.GetChatsWithMessages(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, withMessages.ID, chats[0].ID)
}

func TestMessageRepository_ListByChatOrderAndRichFields(t *testing.T) {
	db := setupTestDB(t)
	chatRepo := repositories.NewPostgresChatRepository(db)
	msgRepo := repositories.NewPostgresMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	chat := &models.Chat{UserAID: alice.ID, UserBID: bob.ID}
	require.NoError(t, chatRepo.Create(ctx, chat))

	contents := []string{"first", "second", "third"}
	senders := []uint{alice.ID, bob.ID, alice.ID}
	for i, content := range contents {
		require.NoError(t, msgRepo.Create(ctx, &models.Message{
			ChatID: chat.ID, SenderID: senders[i], Content: content,
		}))
	}

	msgs, err := msgRepo.ListByChat(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, msg := range msgs {
		assert.Equal(t, contents[i], msg.Content)
		assert.Equal(t, senders[i], msg.SenderID)
	}
	assert.Equal(t, "alice", msgs[0].SenderUsername)
	assert.Equal(t, "User bob", msgs[1].SenderName)

	count, err := msgRepo.CountByChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMessageRepository_GetRichByID(t *testing.T) {
	db := setupTestDB(t)
	chatRepo := repositories.NewPostgresChatRepository(db)
	msgRepo := repositories.NewPostgresMessageRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	chat := &models.Chat{UserAID: alice.ID, UserBID: bob.ID}
	require.NoError(t, chatRepo.Create(ctx, chat))

	msg := &models.Message{ChatID: chat.ID, SenderID: bob.ID, Content: "hello"}
	require.NoError(t, msgRepo.Create(ctx, msg))

	rich, err := msgRepo.GetRichByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", rich.Content)
	assert.Equal(t, "bob", rich.SenderUsername)
	assert.Equal(t, "Sent", rich.Status)
	assert.Equal(t, chat.ID, rich.ChatID)
}
