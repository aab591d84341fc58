package repository

import (
	"context"

	"github.com/nobotchat/relay/workspace/domain"
)

type IWorkspaceRepository interface {
	GetByID(ctx context.Context, id string) (domain.Workspace, error)
	Create(ctx context.Context, ws domain.Workspace) error
	Update(ctx context.Context, ws domain.Workspace) error
	List(ctx context.Context) ([]domain.Workspace, error)
}
