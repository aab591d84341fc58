package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainWorkspace "github.com/nobotchat/relay/domains/workspace"
	"github.com/nobotchat/relay/workspace/domain"
	wsrepo "github.com/nobotchat/relay/workspace/repository"
)

// WorkspaceService manages tenant records and their bot configuration.
type WorkspaceService struct {
	repo wsrepo.IWorkspaceRepository

	defaultReplyDelayMs     int
	defaultTypingDurationMs int
}

func NewWorkspaceService(repo wsrepo.IWorkspaceRepository, defaultReplyDelayMs, defaultTypingDurationMs int) *WorkspaceService {
	return &WorkspaceService{
		repo:                    repo,
		defaultReplyDelayMs:     defaultReplyDelayMs,
		defaultTypingDurationMs: defaultTypingDurationMs,
	}
}

func (s *WorkspaceService) Create(ctx context.Context, req domainWorkspace.CreateWorkspaceRequest) (domain.Workspace, error) {
	now := time.Now()
	ws := domain.Workspace{
		ID:           uuid.NewString(),
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Website:      req.Website,
		SupportEmail: req.SupportEmail,
		Status:       domain.WorkspaceStatusActive,
		BotSettings: domain.BotSettings{
			Enabled:                 true,
			ReplyDelayMs:            s.defaultReplyDelayMs,
			TypingIndicatorDuration: s.defaultTypingDurationMs,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, ws); err != nil {
		return domain.Workspace{}, err
	}
	return ws, nil
}

func (s *WorkspaceService) Get(ctx context.Context, id string) (domain.Workspace, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *WorkspaceService) Update(ctx context.Context, id string, req domainWorkspace.UpdateWorkspaceRequest) (domain.Workspace, error) {
	ws, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Workspace{}, err
	}

	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.BusinessName != nil {
		ws.BusinessName = *req.BusinessName
	}
	if req.Website != nil {
		ws.Website = *req.Website
	}
	if req.SupportEmail != nil {
		ws.SupportEmail = *req.SupportEmail
	}
	if req.Status != nil {
		ws.Status = domain.WorkspaceStatus(*req.Status)
	}
	if req.BotEnabled != nil {
		ws.BotSettings.Enabled = *req.BotEnabled
	}
	if req.ReplyDelayMs != nil {
		ws.BotSettings.ReplyDelayMs = *req.ReplyDelayMs
	}
	if req.TypingIndicatorDuration != nil {
		ws.BotSettings.TypingIndicatorDuration = *req.TypingIndicatorDuration
	}
	if req.AgentName != nil {
		ws.Widget.AgentName = *req.AgentName
	}
	if req.Greeting != nil {
		ws.Widget.Greeting = *req.Greeting
	}
	if req.TrainingContent != nil {
		ws.TrainingData.Content = *req.TrainingContent
		ws.TrainingData.Status = "ready"
	}
	ws.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ws); err != nil {
		return domain.Workspace{}, err
	}
	return ws, nil
}

func (s *WorkspaceService) List(ctx context.Context) ([]domain.Workspace, error) {
	return s.repo.List(ctx)
}
