package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	convDomain "github.com/nobotchat/relay/conversation/domain"
	"github.com/nobotchat/relay/domains/inbox"
	pkgError "github.com/nobotchat/relay/pkg/error"
	"github.com/nobotchat/relay/pkg/utils"
)

type Conversation struct {
	Service inbox.IInboxUsecase
}

func InitRestConversation(app fiber.Router, service inbox.IInboxUsecase) Conversation {
	rest := Conversation{Service: service}
	app.Get("/workspaces/:workspaceId/conversations", rest.List)
	app.Get("/conversations/:id/messages", rest.Messages)
	app.Patch("/conversations/:id", rest.UpdateStatus)
	app.Post("/conversations/:id/read", rest.MarkRead)
	app.Delete("/conversations/:id", rest.Delete)
	return rest
}

func (controller *Conversation) List(c *fiber.Ctx) error {
	workspaceID := c.Params("workspaceId")

	conversations, err := controller.Service.ListConversations(c.UserContext(), workspaceID)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch conversations",
		Results: conversations,
	})
}

func (controller *Conversation) Messages(c *fiber.Ctx) error {
	conversationID := c.Params("id")

	messages, err := controller.Service.ListMessages(c.UserContext(), conversationID)
	if errors.Is(err, convDomain.ErrConversationNotFound) {
		panic(pkgError.NotFoundError("conversation not found"))
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch messages",
		Results: messages,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (controller *Conversation) UpdateStatus(c *fiber.Ctx) error {
	conversationID := c.Params("id")

	var request updateStatusRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	status := convDomain.ConversationStatus(request.Status)
	if !status.Valid() {
		panic(pkgError.ValidationError("status must be one of open, pending, resolved, closed"))
	}

	err = controller.Service.UpdateConversationStatus(c.UserContext(), conversationID, status)
	if errors.Is(err, convDomain.ErrConversationNotFound) {
		panic(pkgError.NotFoundError("conversation not found"))
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update conversation status",
	})
}

func (controller *Conversation) MarkRead(c *fiber.Ctx) error {
	conversationID := c.Params("id")

	err := controller.Service.MarkRead(c.UserContext(), conversationID)
	if errors.Is(err, convDomain.ErrConversationNotFound) {
		panic(pkgError.NotFoundError("conversation not found"))
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success mark conversation as read",
	})
}

func (controller *Conversation) Delete(c *fiber.Ctx) error {
	conversationID := c.Params("id")

	err := controller.Service.DeleteConversation(c.UserContext(), conversationID)
	if errors.Is(err, convDomain.ErrConversationNotFound) {
		panic(pkgError.NotFoundError("conversation not found"))
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete conversation",
	})
}
