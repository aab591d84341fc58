package rest

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nobotchat/relay/config"
	convDomain "github.com/nobotchat/relay/conversation/domain"
	"github.com/nobotchat/relay/domains/inbox"
	domainWidget "github.com/nobotchat/relay/domains/widget"
	pkgError "github.com/nobotchat/relay/pkg/error"
	"github.com/nobotchat/relay/pkg/utils"
	"github.com/nobotchat/relay/validations"
)

type Widget struct {
	Service   inbox.IInboxUsecase
	WaitLimit time.Duration
}

func InitRestWidget(app fiber.Router, service inbox.IInboxUsecase, cfg config.Config) Widget {
	waitLimit := cfg.AI.ResponderTimeout +
		time.Duration(cfg.AI.DefaultReplyDelayMs+cfg.AI.DefaultTypingDurationMs)*time.Millisecond +
		2*time.Second

	rest := Widget{Service: service, WaitLimit: waitLimit}
	app.Post("/widget/:workspaceId/chat", rest.Chat)
	app.Get("/widget/:workspaceId/chat", rest.History)
	return rest
}

// Chat accepts a visitor message and holds the request open until the
// bot reply arrives or the wait limit passes. A timed-out request still
// persisted the message; the reply reaches the visitor over the socket
// or on the next history fetch.
func (controller *Widget) Chat(c *fiber.Ctx) error {
	workspaceID := c.Params("workspaceId")

	var request domainWidget.ChatRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateWidgetChat(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	replyCh := make(chan string, 1)
	result, err := controller.Service.HandleInbound(c.UserContext(), inbox.InboundRequest{
		WorkspaceID: workspaceID,
		Channel:     convDomain.ChannelWidget,
		Content:     request.Message,
		Sender:      convDomain.SenderCustomer,
		Customer:    request.CustomerInfo.ToCustomer(request.SessionID),
		OnBotReply:  func(reply string) { replyCh <- reply },
	})
	if err != nil {
		panicDomainError(err)
	}

	response := domainWidget.ChatResponse{
		Success:        true,
		ConversationID: result.Conversation.ID,
	}
	if result.BotTriggered {
		select {
		case reply := <-replyCh:
			response.Response = reply
		case <-time.After(controller.WaitLimit):
		case <-c.UserContext().Done():
		}
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message received",
		Results: response,
	})
}

func (controller *Widget) History(c *fiber.Ctx) error {
	workspaceID := c.Params("workspaceId")
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "sessionId is required",
		})
	}

	conv, messages, err := controller.Service.WidgetHistory(c.UserContext(), workspaceID, sessionID)
	if errors.Is(err, convDomain.ErrConversationNotFound) {
		return c.JSON(utils.ResponseData{
			Status:  200,
			Code:    "SUCCESS",
			Message: "No active session",
			Results: domainWidget.HistoryResponse{Messages: []domainWidget.HistoryMessage{}},
		})
	}
	utils.PanicIfNeeded(err)

	history := make([]domainWidget.HistoryMessage, 0, len(messages))
	for _, m := range messages {
		history = append(history, domainWidget.HistoryMessage{
			ID:         m.ID,
			Sender:     string(m.Sender),
			SenderName: m.SenderName,
			Content:    m.Content,
			CreatedAt:  m.CreatedAt,
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Session history retrieved",
		Results: domainWidget.HistoryResponse{
			ConversationID: conv.ID,
			Status:         string(conv.Status),
			Messages:       history,
		},
	})
}

func panicDomainError(err error) {
	switch {
	case errors.Is(err, convDomain.ErrWorkspaceUnavailable):
		panic(pkgError.WorkspaceUnavailableError("workspace is not available"))
	case errors.Is(err, convDomain.ErrConversationNotFound):
		panic(pkgError.NotFoundError("conversation not found"))
	default:
		panic(pkgError.StorageError(err.Error()))
	}
}
