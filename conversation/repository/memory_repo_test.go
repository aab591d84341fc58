package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobotchat/relay/conversation/domain"
)

func seedConv(t *testing.T, repo *MemoryConversationRepository, id, sessionID string, status domain.ConversationStatus, createdAt time.Time) domain.Conversation {
	t.Helper()
	conv := domain.Conversation{
		ID:            id,
		WorkspaceID:   "ws1",
		Channel:       domain.ChannelWidget,
		ChannelID:     sessionID,
		Customer:      domain.Customer{SessionID: sessionID},
		Status:        status,
		LastMessageAt: createdAt,
		CreatedAt:     createdAt,
	}
	require.NoError(t, repo.CreateConversation(context.Background(), conv))
	return conv
}

func TestMemoryRepo_FindWidgetSessionPrefersNewest(t *testing.T) {
	repo := NewMemoryConversationRepository()
	base := time.Now()

	seedConv(t, repo, "old", "s1", domain.StatusOpen, base.Add(-time.Hour))
	seedConv(t, repo, "new", "s1", domain.StatusOpen, base)

	conv, err := repo.FindWidgetSession(context.Background(), "ws1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "new", conv.ID)
}

func TestMemoryRepo_FindWidgetSessionSkipsResolved(t *testing.T) {
	repo := NewMemoryConversationRepository()
	base := time.Now()

	seedConv(t, repo, "resolved", "s1", domain.StatusResolved, base)
	seedConv(t, repo, "open", "s1", domain.StatusOpen, base.Add(-time.Hour))

	conv, err := repo.FindWidgetSession(context.Background(), "ws1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "open", conv.ID)

	_, err = repo.FindWidgetSession(context.Background(), "ws1", "unknown")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestMemoryRepo_FindByChannelPicksMostRecentlyTouched(t *testing.T) {
	repo := NewMemoryConversationRepository()
	base := time.Now()

	seedConv(t, repo, "stale", "chan1", domain.StatusResolved, base.Add(-2*time.Hour))
	fresh := seedConv(t, repo, "fresh", "chan1", domain.StatusResolved, base)

	// Resolution by channel identity ignores status on purpose; resolved
	// threads surface again instead of spawning duplicates.
	conv, err := repo.FindByChannel(context.Background(), "ws1", domain.ChannelWidget, "chan1")
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, conv.ID)
}

func TestMemoryRepo_UpdateLastMessage(t *testing.T) {
	repo := NewMemoryConversationRepository()
	conv := seedConv(t, repo, "c1", "s1", domain.StatusOpen, time.Now().Add(-time.Minute))

	at := time.Now()
	updated, err := repo.UpdateLastMessage(context.Background(), conv.ID, at, "latest words", true)
	require.NoError(t, err)
	assert.Equal(t, "latest words", updated.LastMessagePreview)
	assert.Equal(t, 1, updated.UnreadCount)
	assert.WithinDuration(t, at, updated.LastMessageAt, time.Millisecond)

	updated, err = repo.UpdateLastMessage(context.Background(), conv.ID, at, "no unread bump", false)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.UnreadCount)

	_, err = repo.UpdateLastMessage(context.Background(), "ghost", at, "x", false)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestMemoryRepo_ListRecentMessagesReturnsChronologicalTail(t *testing.T) {
	repo := NewMemoryConversationRepository()
	conv := seedConv(t, repo, "c1", "s1", domain.StatusOpen, time.Now())

	base := time.Now()
	for i := 0; i < 15; i++ {
		require.NoError(t, repo.CreateMessage(context.Background(), domain.Message{
			ID:             fmt.Sprintf("m%02d", i),
			ConversationID: conv.ID,
			WorkspaceID:    "ws1",
			Sender:         domain.SenderCustomer,
			Content:        fmt.Sprintf("message %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := repo.ListRecentMessages(context.Background(), conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 10)
	assert.Equal(t, "message 5", msgs[0].Content, "window starts at the oldest of the last 10")
	assert.Equal(t, "message 14", msgs[9].Content)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt), "history must stay chronological")
	}
}

func TestMemoryRepo_DeleteConversationCascades(t *testing.T) {
	repo := NewMemoryConversationRepository()
	conv := seedConv(t, repo, "c1", "s1", domain.StatusOpen, time.Now())
	require.NoError(t, repo.CreateMessage(context.Background(), domain.Message{
		ID:             "m1",
		ConversationID: conv.ID,
		WorkspaceID:    "ws1",
		Sender:         domain.SenderCustomer,
		Content:        "hello",
		CreatedAt:      time.Now(),
	}))

	require.NoError(t, repo.DeleteConversation(context.Background(), conv.ID))

	_, err := repo.GetConversation(context.Background(), conv.ID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	msgs, err := repo.ListMessages(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.ErrorIs(t, repo.DeleteConversation(context.Background(), conv.ID), domain.ErrConversationNotFound)
}

func TestMemoryRepo_ResetUnread(t *testing.T) {
	repo := NewMemoryConversationRepository()
	conv := seedConv(t, repo, "c1", "s1", domain.StatusOpen, time.Now())

	_, err := repo.UpdateLastMessage(context.Background(), conv.ID, time.Now(), "p", true)
	require.NoError(t, err)

	require.NoError(t, repo.ResetUnread(context.Background(), conv.ID))
	got, err := repo.GetConversation(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadCount)

	assert.ErrorIs(t, repo.ResetUnread(context.Background(), "ghost"), domain.ErrConversationNotFound)
}
