package botengine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nobotchat/relay/config"
	convDomain "github.com/nobotchat/relay/conversation/domain"
	convRepo "github.com/nobotchat/relay/conversation/repository"
	"github.com/nobotchat/relay/domains/relay"
	"github.com/nobotchat/relay/domains/responder"
	"github.com/nobotchat/relay/pkg/msgworker"
	wsDomain "github.com/nobotchat/relay/workspace/domain"
)

const historyLimit = 10

// TriggerInput is one bot-reply request, produced by the inbox after a
// customer message has been persisted and broadcast.
type TriggerInput struct {
	Workspace    wsDomain.Workspace
	Conversation convDomain.Conversation
	UserText     string

	// OnReply receives the final reply text in addition to the room
	// broadcast. Optional; used by the widget ingress.
	OnReply func(reply string)
}

// Engine drives the timed bot-reply sequence: typing indicator on,
// generation, minimum delay, typing indicator off, persist and broadcast.
// Jobs are serialized per conversation through the worker pool so two
// back-to-back customer messages never produce interleaved replies.
type Engine struct {
	repo        convRepo.IConversationRepository
	broadcaster relay.Broadcaster
	pool        *msgworker.Pool
	providers   map[string]responder.Provider
	cfg         config.AIConfig
}

func NewEngine(repo convRepo.IConversationRepository, broadcaster relay.Broadcaster, pool *msgworker.Pool, cfg config.AIConfig) *Engine {
	return &Engine{
		repo:        repo,
		broadcaster: broadcaster,
		pool:        pool,
		providers:   make(map[string]responder.Provider),
		cfg:         cfg,
	}
}

func (e *Engine) RegisterProvider(p responder.Provider) {
	e.providers[p.Name()] = p
}

// Eligible reports whether a persisted message should trigger a bot reply.
func Eligible(ws wsDomain.Workspace, conv convDomain.Conversation, sender convDomain.Sender) bool {
	return sender == convDomain.SenderCustomer && conv.IsBot && ws.BotSettings.Enabled
}

// Trigger enqueues one reply job. Non-blocking; returns false when the
// job could not be queued (pool stopped or backpressure).
func (e *Engine) Trigger(in TriggerInput) bool {
	if !Eligible(in.Workspace, in.Conversation, convDomain.SenderCustomer) {
		return false
	}
	return e.pool.TryDispatch(msgworker.Job{
		WorkspaceID:    in.Workspace.ID,
		ConversationID: in.Conversation.ID,
		Handler: func(ctx context.Context) {
			e.run(ctx, in)
		},
	})
}

func (e *Engine) run(ctx context.Context, in TriggerInput) {
	conv := in.Conversation
	room := relay.ConversationRoom(conv.ID)

	e.broadcaster.Publish(room, relay.EventTypingStart, relay.TypingPayload{
		ConversationID: conv.ID,
		Sender:         "bot",
	})

	history, err := e.repo.ListRecentMessages(ctx, conv.ID, historyLimit)
	if err != nil {
		logrus.WithError(err).Warn("[BOT] Failed to load history, replying without context")
		history = nil
	}

	reply := e.generate(ctx, in.Workspace, history, in.UserText)

	// The full configured delay is slept after generation, so the reply
	// never lands before replyDelay+typingDuration from the trigger.
	e.sleep(ctx, e.replyLatency(in.Workspace))

	e.broadcaster.Publish(room, relay.EventTypingStop, relay.TypingPayload{
		ConversationID: conv.ID,
		Sender:         "bot",
	})

	now := time.Now()
	botMsg := convDomain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		WorkspaceID:    conv.WorkspaceID,
		Sender:         convDomain.SenderBot,
		SenderName:     in.Workspace.AgentName(e.cfg.DefaultAgentName),
		Content:        reply,
		ContentType:    "text",
		Status:         convDomain.MessageStatusSent,
		CreatedAt:      now,
	}

	if in.OnReply != nil {
		defer in.OnReply(reply)
	}

	if err := e.repo.CreateMessage(ctx, botMsg); err != nil {
		logrus.WithError(err).Error("[BOT] Failed to persist bot reply")
		return
	}

	updated, err := e.repo.UpdateLastMessage(ctx, conv.ID, now, convDomain.Preview(reply), false)
	if err != nil {
		logrus.WithError(err).Error("[BOT] Failed to update conversation after reply")
		updated = conv
	}

	e.broadcaster.Publish(room, relay.EventMessageNew, relay.MessagePayload{
		ID:             botMsg.ID,
		ConversationID: botMsg.ConversationID,
		WorkspaceID:    botMsg.WorkspaceID,
		Sender:         string(botMsg.Sender),
		SenderName:     botMsg.SenderName,
		Content:        botMsg.Content,
		ContentType:    botMsg.ContentType,
		Status:         string(botMsg.Status),
		CreatedAt:      botMsg.CreatedAt,
	})
	e.broadcaster.Publish(relay.WorkspaceRoom(conv.WorkspaceID), relay.EventConversationUpdate, relay.ConversationUpdatePayload{
		ConversationID:     conv.ID,
		LastMessageAt:      updated.LastMessageAt,
		LastMessagePreview: updated.LastMessagePreview,
		UnreadCount:        updated.UnreadCount,
	})
}

// generate calls the configured provider with a bounded timeout, degrading
// to the fallback message on any failure or empty output.
func (e *Engine) generate(ctx context.Context, ws wsDomain.Workspace, history []convDomain.Message, userText string) string {
	provider, ok := e.providers[e.cfg.Provider]
	apiKey := e.cfg.APIKey()
	if !ok || apiKey == "" {
		return e.cfg.FallbackMessage
	}

	genCtx, cancel := context.WithTimeout(ctx, e.cfg.ResponderTimeout)
	defer cancel()

	text, err := provider.Generate(genCtx, apiKey, responder.Request{
		SystemPrompt: SystemPrompt(ws, e.cfg.DefaultAgentName),
		History:      HistoryTurns(history),
		UserText:     userText,
		Model:        e.cfg.Model,
	})
	if err != nil {
		logrus.WithError(err).Warnf("[BOT] Responder %s failed, using fallback", provider.Name())
		return e.cfg.FallbackMessage
	}

	text = SanitizeReply(text)
	if text == "" {
		return e.cfg.FallbackMessage
	}
	return text
}

func (e *Engine) replyLatency(ws wsDomain.Workspace) time.Duration {
	replyDelay := ws.BotSettings.ReplyDelayMs
	if replyDelay <= 0 {
		replyDelay = e.cfg.DefaultReplyDelayMs
	}
	typing := ws.BotSettings.TypingIndicatorDuration
	if typing <= 0 {
		typing = e.cfg.DefaultTypingDurationMs
	}
	return time.Duration(replyDelay+typing) * time.Millisecond
}

// sleep waits for d or until the context is cancelled; on cancellation the
// reply still gets persisted and broadcast, just without the remaining
// artificial delay.
func (e *Engine) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Stats exposes the worker pool metrics for the monitoring surface.
func (e *Engine) Stats() msgworker.PoolStats {
	return e.pool.GetStats()
}
