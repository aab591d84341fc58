package workspace

import (
	"context"

	"github.com/nobotchat/relay/workspace/domain"
)

// CreateWorkspaceRequest registers a new tenant.
type CreateWorkspaceRequest struct {
	Name         string `json:"name"`
	BusinessName string `json:"businessName"`
	Website      string `json:"website"`
	SupportEmail string `json:"supportEmail"`
}

// UpdateWorkspaceRequest patches tenant settings. Nil fields are left
// untouched.
type UpdateWorkspaceRequest struct {
	Name         *string `json:"name"`
	BusinessName *string `json:"businessName"`
	Website      *string `json:"website"`
	SupportEmail *string `json:"supportEmail"`
	Status       *string `json:"status"`

	BotEnabled              *bool   `json:"botEnabled"`
	ReplyDelayMs            *int    `json:"replyDelayMs"`
	TypingIndicatorDuration *int    `json:"typingIndicatorDuration"`
	AgentName               *string `json:"agentName"`
	Greeting                *string `json:"greeting"`

	TrainingContent *string `json:"trainingContent"`
}

type IWorkspaceUsecase interface {
	Create(ctx context.Context, req CreateWorkspaceRequest) (domain.Workspace, error)
	Get(ctx context.Context, id string) (domain.Workspace, error)
	Update(ctx context.Context, id string, req UpdateWorkspaceRequest) (domain.Workspace, error)
	List(ctx context.Context) ([]domain.Workspace, error)
}
