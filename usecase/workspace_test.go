package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainWorkspace "github.com/nobotchat/relay/domains/workspace"
	"github.com/nobotchat/relay/workspace/domain"
	wsRepo "github.com/nobotchat/relay/workspace/repository"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func TestWorkspaceService_CreateUsesDefaults(t *testing.T) {
	repo := wsRepo.NewMemoryWorkspaceRepository()
	svc := NewWorkspaceService(repo, 1500, 2000)

	ws, err := svc.Create(context.Background(), domainWorkspace.CreateWorkspaceRequest{
		Name:         "Acme",
		BusinessName: "Acme Corp",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, domain.WorkspaceStatusActive, ws.Status)
	assert.True(t, ws.BotSettings.Enabled)
	assert.Equal(t, 1500, ws.BotSettings.ReplyDelayMs)
	assert.Equal(t, 2000, ws.BotSettings.TypingIndicatorDuration)

	stored, err := repo.GetByID(context.Background(), ws.ID)
	require.NoError(t, err)
	assert.Equal(t, ws.Name, stored.Name)
}

func TestWorkspaceService_UpdatePatchesOnlyProvidedFields(t *testing.T) {
	repo := wsRepo.NewMemoryWorkspaceRepository()
	svc := NewWorkspaceService(repo, 1500, 2000)

	ws, err := svc.Create(context.Background(), domainWorkspace.CreateWorkspaceRequest{Name: "Acme"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), ws.ID, domainWorkspace.UpdateWorkspaceRequest{
		BotEnabled:      boolPtr(false),
		ReplyDelayMs:    intPtr(500),
		AgentName:       strPtr("Riley"),
		TrainingContent: strPtr("Refunds within 30 days."),
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", updated.Name, "untouched fields keep their value")
	assert.False(t, updated.BotSettings.Enabled)
	assert.Equal(t, 500, updated.BotSettings.ReplyDelayMs)
	assert.Equal(t, 2000, updated.BotSettings.TypingIndicatorDuration)
	assert.Equal(t, "Riley", updated.Widget.AgentName)
	assert.Equal(t, "Refunds within 30 days.", updated.TrainingData.Content)
	assert.Equal(t, "ready", updated.TrainingData.Status)
	assert.True(t, updated.UpdatedAt.After(ws.UpdatedAt) || updated.UpdatedAt.Equal(ws.UpdatedAt))
}

func TestWorkspaceService_UpdateStatusSuspends(t *testing.T) {
	repo := wsRepo.NewMemoryWorkspaceRepository()
	svc := NewWorkspaceService(repo, 1500, 2000)

	ws, err := svc.Create(context.Background(), domainWorkspace.CreateWorkspaceRequest{Name: "Acme"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), ws.ID, domainWorkspace.UpdateWorkspaceRequest{
		Status: strPtr("suspended"),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive())
}

func TestWorkspaceService_UpdateUnknownWorkspace(t *testing.T) {
	repo := wsRepo.NewMemoryWorkspaceRepository()
	svc := NewWorkspaceService(repo, 1500, 2000)

	_, err := svc.Update(context.Background(), "ghost", domainWorkspace.UpdateWorkspaceRequest{})
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}
