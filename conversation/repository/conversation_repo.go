package repository

import (
	"context"
	"time"

	"github.com/nobotchat/relay/conversation/domain"
)

type IConversationRepository interface {
	// Conversations
	CreateConversation(ctx context.Context, c domain.Conversation) error
	GetConversation(ctx context.Context, id string) (domain.Conversation, error)
	// FindByChannel returns the most recently touched conversation for the
	// (workspace, channel, channelId) tuple regardless of status, or
	// ErrConversationNotFound.
	FindByChannel(ctx context.Context, workspaceID string, channel domain.Channel, channelID string) (domain.Conversation, error)
	// FindWidgetSession returns the newest non-resolved widget conversation
	// for a visitor session.
	FindWidgetSession(ctx context.Context, workspaceID, sessionID string) (domain.Conversation, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Conversation, error)
	// UpdateLastMessage bumps the activity timestamp and preview, optionally
	// incrementing the unread counter, and returns the updated conversation.
	UpdateLastMessage(ctx context.Context, id string, at time.Time, preview string, incUnread bool) (domain.Conversation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConversationStatus) error
	ResetUnread(ctx context.Context, id string) error
	// DeleteConversation removes the conversation and all of its messages.
	DeleteConversation(ctx context.Context, id string) error

	// Messages
	CreateMessage(ctx context.Context, m domain.Message) error
	// ListRecentMessages returns up to limit newest messages in
	// chronological order.
	ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
}
