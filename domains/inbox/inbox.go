package inbox

import (
	"context"

	convDomain "github.com/nobotchat/relay/conversation/domain"
)

// InboundRequest carries one inbound utterance from any ingress (widget
// HTTP call or realtime message:send event).
type InboundRequest struct {
	WorkspaceID    string
	ConversationID string // optional explicit thread, caller-trusted
	Channel        convDomain.Channel
	ChannelID      string
	Content        string
	Sender         convDomain.Sender
	SenderName     string
	Customer       convDomain.Customer

	// OriginClientID identifies the realtime connection that produced the
	// message. That connection is excluded from the message:new fanout
	// since it receives the message on its message:sent ack.
	OriginClientID string

	// OnBotReply, when set, receives the generated bot reply text in
	// addition to the room broadcast. Used by the widget ingress, which
	// returns the reply in the HTTP response. Must not block.
	OnBotReply func(reply string)
}

type InboundResult struct {
	Conversation convDomain.Conversation
	Message      convDomain.Message
	BotTriggered bool
}

type IInboxUsecase interface {
	// HandleInbound resolves the conversation, persists and broadcasts the
	// message, and (if eligible) enqueues the bot orchestrator without
	// delaying the reply to the caller.
	HandleInbound(ctx context.Context, req InboundRequest) (InboundResult, error)

	// MarkRead zeroes the unread counter.
	MarkRead(ctx context.Context, conversationID string) error

	// WidgetHistory returns the visitor-facing transcript for a widget
	// session, excluding internal notes.
	WidgetHistory(ctx context.Context, workspaceID, sessionID string) (convDomain.Conversation, []convDomain.Message, error)

	// Dashboard queries.
	ListConversations(ctx context.Context, workspaceID string) ([]convDomain.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]convDomain.Message, error)
	UpdateConversationStatus(ctx context.Context, conversationID string, status convDomain.ConversationStatus) error
	DeleteConversation(ctx context.Context, conversationID string) error
}
