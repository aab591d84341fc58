package repository

import (
	"context"
	"sync"
	"time"

	"github.com/nobotchat/relay/workspace/domain"
)

// MemoryWorkspaceRepository implements IWorkspaceRepository in memory.
type MemoryWorkspaceRepository struct {
	mu    sync.RWMutex
	store map[string]domain.Workspace
}

func NewMemoryWorkspaceRepository() *MemoryWorkspaceRepository {
	return &MemoryWorkspaceRepository{store: make(map[string]domain.Workspace)}
}

func (m *MemoryWorkspaceRepository) GetByID(ctx context.Context, id string) (domain.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ws, ok := m.store[id]
	if !ok {
		return domain.Workspace{}, domain.ErrWorkspaceNotFound
	}
	return ws, nil
}

func (m *MemoryWorkspaceRepository) Create(ctx context.Context, ws domain.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = now
	}
	ws.UpdatedAt = now
	m.store[ws.ID] = ws
	return nil
}

func (m *MemoryWorkspaceRepository) Update(ctx context.Context, ws domain.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store[ws.ID]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	ws.UpdatedAt = time.Now()
	m.store[ws.ID] = ws
	return nil
}

func (m *MemoryWorkspaceRepository) List(ctx context.Context) ([]domain.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Workspace, 0, len(m.store))
	for _, ws := range m.store {
		out = append(out, ws)
	}
	return out, nil
}
