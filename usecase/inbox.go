package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nobotchat/relay/botengine"
	convDomain "github.com/nobotchat/relay/conversation/domain"
	convRepo "github.com/nobotchat/relay/conversation/repository"
	"github.com/nobotchat/relay/domains/inbox"
	"github.com/nobotchat/relay/domains/relay"
	workspaceDomain "github.com/nobotchat/relay/workspace/domain"
	wsRepo "github.com/nobotchat/relay/workspace/repository"
)

// InboxService is the inbound message path: workspace gate, conversation
// resolution, persistence, broadcast, and bot hand-off.
type InboxService struct {
	workspaces    wsRepo.IWorkspaceRepository
	conversations convRepo.IConversationRepository
	broadcaster   relay.Broadcaster
	engine        *botengine.Engine
}

func NewInboxService(workspaces wsRepo.IWorkspaceRepository, conversations convRepo.IConversationRepository, broadcaster relay.Broadcaster, engine *botengine.Engine) *InboxService {
	return &InboxService{
		workspaces:    workspaces,
		conversations: conversations,
		broadcaster:   broadcaster,
		engine:        engine,
	}
}

func (s *InboxService) HandleInbound(ctx context.Context, req inbox.InboundRequest) (inbox.InboundResult, error) {
	ws, err := s.workspaces.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		if errors.Is(err, workspaceDomain.ErrWorkspaceNotFound) {
			return inbox.InboundResult{}, convDomain.ErrWorkspaceUnavailable
		}
		return inbox.InboundResult{}, fmt.Errorf("load workspace: %w", err)
	}
	if !ws.IsActive() {
		return inbox.InboundResult{}, convDomain.ErrWorkspaceUnavailable
	}

	conv, err := s.resolve(ctx, ws.BotSettings.Enabled, req)
	if err != nil {
		return inbox.InboundResult{}, err
	}

	senderName := req.SenderName
	if senderName == "" && req.Sender == convDomain.SenderCustomer {
		senderName = req.Customer.Name
		if senderName == "" {
			senderName = "Customer"
		}
	}

	now := time.Now()
	msg := convDomain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		WorkspaceID:    req.WorkspaceID,
		Sender:         req.Sender,
		SenderName:     senderName,
		Content:        req.Content,
		ContentType:    "text",
		Status:         convDomain.MessageStatusSent,
		CreatedAt:      now,
	}
	if err := s.conversations.CreateMessage(ctx, msg); err != nil {
		return inbox.InboundResult{}, fmt.Errorf("persist message: %w", err)
	}

	incUnread := req.Sender == convDomain.SenderCustomer
	updated, err := s.conversations.UpdateLastMessage(ctx, conv.ID, now, convDomain.Preview(req.Content), incUnread)
	if err != nil {
		// The message is already persisted; degrade to the stale snapshot
		// rather than failing the send.
		logrus.WithError(err).Warn("[INBOX] Failed to bump conversation activity")
		updated = conv
	}

	// The originating socket gets the message back on its message:sent ack,
	// so it is excluded from the room fanout.
	s.broadcaster.PublishExcept(relay.ConversationRoom(conv.ID), relay.EventMessageNew, relay.MessagePayload{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		WorkspaceID:    msg.WorkspaceID,
		Sender:         string(msg.Sender),
		SenderName:     msg.SenderName,
		Content:        msg.Content,
		ContentType:    msg.ContentType,
		Status:         string(msg.Status),
		CreatedAt:      msg.CreatedAt,
	}, req.OriginClientID)
	s.broadcaster.Publish(relay.WorkspaceRoom(req.WorkspaceID), relay.EventConversationUpdate, relay.ConversationUpdatePayload{
		ConversationID:     conv.ID,
		LastMessageAt:      updated.LastMessageAt,
		LastMessagePreview: updated.LastMessagePreview,
		UnreadCount:        updated.UnreadCount,
	})

	triggered := false
	if botengine.Eligible(ws, updated, req.Sender) {
		triggered = s.engine.Trigger(botengine.TriggerInput{
			Workspace:    ws,
			Conversation: updated,
			UserText:     req.Content,
			OnReply:      req.OnBotReply,
		})
	}

	return inbox.InboundResult{
		Conversation: updated,
		Message:      msg,
		BotTriggered: triggered,
	}, nil
}

// resolve finds the conversation for an inbound message or creates a new
// open one. An explicit id is caller-trusted. The find-then-create has no
// transactional guard; a race between two first messages on the same new
// thread may create two conversations, which self-heals on the next
// message picking the most recently touched one.
func (s *InboxService) resolve(ctx context.Context, botEnabled bool, req inbox.InboundRequest) (convDomain.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := s.conversations.GetConversation(ctx, req.ConversationID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, convDomain.ErrConversationNotFound) {
			return convDomain.Conversation{}, fmt.Errorf("lookup conversation: %w", err)
		}
		// Fall through to the channel lookup, matching the realtime
		// surface behavior for stale ids.
	}

	var (
		conv convDomain.Conversation
		err  error
	)
	if req.Channel == convDomain.ChannelWidget && req.Customer.SessionID != "" {
		conv, err = s.conversations.FindWidgetSession(ctx, req.WorkspaceID, req.Customer.SessionID)
	} else {
		conv, err = s.conversations.FindByChannel(ctx, req.WorkspaceID, req.Channel, req.ChannelID)
	}
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, convDomain.ErrConversationNotFound) {
		return convDomain.Conversation{}, fmt.Errorf("find conversation: %w", err)
	}

	now := time.Now()
	conv = convDomain.Conversation{
		ID:            uuid.NewString(),
		WorkspaceID:   req.WorkspaceID,
		Channel:       req.Channel,
		ChannelID:     req.ChannelID,
		Customer:      req.Customer,
		Status:        convDomain.StatusOpen,
		LastMessageAt: now,
		IsBot:         botEnabled,
		CreatedAt:     now,
	}
	if err := s.conversations.CreateConversation(ctx, conv); err != nil {
		return convDomain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (s *InboxService) MarkRead(ctx context.Context, conversationID string) error {
	return s.conversations.ResetUnread(ctx, conversationID)
}

func (s *InboxService) WidgetHistory(ctx context.Context, workspaceID, sessionID string) (convDomain.Conversation, []convDomain.Message, error) {
	conv, err := s.conversations.FindWidgetSession(ctx, workspaceID, sessionID)
	if err != nil {
		return convDomain.Conversation{}, nil, err
	}
	msgs, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return convDomain.Conversation{}, nil, err
	}
	visible := msgs[:0]
	for _, m := range msgs {
		if !m.IsInternal {
			visible = append(visible, m)
		}
	}
	return conv, visible, nil
}

func (s *InboxService) ListConversations(ctx context.Context, workspaceID string) ([]convDomain.Conversation, error) {
	return s.conversations.ListByWorkspace(ctx, workspaceID)
}

func (s *InboxService) ListMessages(ctx context.Context, conversationID string) ([]convDomain.Message, error) {
	if _, err := s.conversations.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.conversations.ListMessages(ctx, conversationID)
}

func (s *InboxService) UpdateConversationStatus(ctx context.Context, conversationID string, status convDomain.ConversationStatus) error {
	return s.conversations.UpdateStatus(ctx, conversationID, status)
}

func (s *InboxService) DeleteConversation(ctx context.Context, conversationID string) error {
	return s.conversations.DeleteConversation(ctx, conversationID)
}
