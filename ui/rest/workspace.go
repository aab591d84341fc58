package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	domainWorkspace "github.com/nobotchat/relay/domains/workspace"
	pkgError "github.com/nobotchat/relay/pkg/error"
	"github.com/nobotchat/relay/pkg/utils"
	"github.com/nobotchat/relay/validations"
	wsDomain "github.com/nobotchat/relay/workspace/domain"
)

type Workspace struct {
	Service domainWorkspace.IWorkspaceUsecase
}

func InitRestWorkspace(app fiber.Router, service domainWorkspace.IWorkspaceUsecase) Workspace {
	rest := Workspace{Service: service}
	app.Post("/workspaces", rest.Create)
	app.Get("/workspaces", rest.List)
	app.Get("/workspaces/:id", rest.Get)
	app.Patch("/workspaces/:id", rest.Update)
	return rest
}

func (controller *Workspace) Create(c *fiber.Ctx) error {
	var request domainWorkspace.CreateWorkspaceRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateCreateWorkspace(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	ws, err := controller.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create workspace",
		Results: ws,
	})
}

func (controller *Workspace) Get(c *fiber.Ctx) error {
	ws, err := controller.Service.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, wsDomain.ErrWorkspaceNotFound) {
		panic(pkgError.NotFoundError("workspace not found"))
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch workspace",
		Results: ws,
	})
}

func (controller *Workspace) Update(c *fiber.Ctx) error {
	var request domainWorkspace.UpdateWorkspaceRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateUpdateWorkspace(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	ws, err := controller.Service.Update(c.UserContext(), c.Params("id"), request)
	if errors.Is(err, wsDomain.ErrWorkspaceNotFound) {
		panic(pkgError.NotFoundError("workspace not found"))
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update workspace",
		Results: ws,
	})
}

func (controller *Workspace) List(c *fiber.Ctx) error {
	workspaces, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch workspaces",
		Results: workspaces,
	})
}
