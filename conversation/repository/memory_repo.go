package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nobotchat/relay/conversation/domain"
)

// MemoryConversationRepository implements IConversationRepository in memory.
// Used by unit tests and the "memory" database mode.
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
	messages      map[string][]domain.Message // conversationID -> chronological
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string]domain.Conversation),
		messages:      make(map[string][]domain.Message),
	}
}

func (m *MemoryConversationRepository) CreateConversation(ctx context.Context, c domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.conversations[c.ID] = c
	return nil
}

func (m *MemoryConversationRepository) GetConversation(ctx context.Context, id string) (domain.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.conversations[id]
	if !ok {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return c, nil
}

func (m *MemoryConversationRepository) FindByChannel(ctx context.Context, workspaceID string, channel domain.Channel, channelID string) (domain.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best domain.Conversation
	found := false
	for _, c := range m.conversations {
		if c.WorkspaceID != workspaceID || c.Channel != channel || c.ChannelID != channelID {
			continue
		}
		if !found || c.LastMessageAt.After(best.LastMessageAt) {
			best = c
			found = true
		}
	}
	if !found {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return best, nil
}

func (m *MemoryConversationRepository) FindWidgetSession(ctx context.Context, workspaceID, sessionID string) (domain.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best domain.Conversation
	found := false
	for _, c := range m.conversations {
		if c.WorkspaceID != workspaceID || c.Channel != domain.ChannelWidget {
			continue
		}
		if c.Customer.SessionID != sessionID || c.Status == domain.StatusResolved {
			continue
		}
		if !found || c.CreatedAt.After(best.CreatedAt) {
			best = c
			found = true
		}
	}
	if !found {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return best, nil
}

func (m *MemoryConversationRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Conversation
	for _, c := range m.conversations {
		if c.WorkspaceID == workspaceID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

func (m *MemoryConversationRepository) UpdateLastMessage(ctx context.Context, id string, at time.Time, preview string, incUnread bool) (domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	c.LastMessageAt = at
	c.LastMessagePreview = preview
	if incUnread {
		c.UnreadCount++
	}
	m.conversations[id] = c
	return c, nil
}

func (m *MemoryConversationRepository) UpdateStatus(ctx context.Context, id string, status domain.ConversationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return domain.ErrConversationNotFound
	}
	c.Status = status
	m.conversations[id] = c
	return nil
}

func (m *MemoryConversationRepository) ResetUnread(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return domain.ErrConversationNotFound
	}
	c.UnreadCount = 0
	m.conversations[id] = c
	return nil
}

func (m *MemoryConversationRepository) DeleteConversation(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.conversations[id]; !ok {
		return domain.ErrConversationNotFound
	}
	delete(m.conversations, id)
	delete(m.messages, id)
	return nil
}

func (m *MemoryConversationRepository) CreateMessage(ctx context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], msg)
	return nil
}

func (m *MemoryConversationRepository) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *MemoryConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.messages[conversationID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
