package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/careops/careops/internal/domain"
)

// memoryStore is an in-memory record store for scenario tests. It applies
// the same monotonic mark rule as the Postgres repository.
type memoryStore struct {
	mu         sync.Mutex
	workspaces map[string]*domain.Workspace
	services   []*domain.ServiceOffering
	items      []*domain.InventoryItem
	writes     int
}

func newMemoryStore(workspaces ...*domain.Workspace) *memoryStore {
	m := &memoryStore{workspaces: make(map[string]*domain.Workspace)}
	for _, ws := range workspaces {
		m.workspaces[ws.ID] = ws
	}
	return m
}

func (m *memoryStore) workspace(id string) domain.Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.workspaces[id]
}

func (m *memoryStore) Create(ctx context.Context, workspace *domain.Workspace) error {
	return m.CreateTx(ctx, nil, workspace)
}

func (m *memoryStore) CreateTx(_ context.Context, _ *sql.Tx, workspace *domain.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws := *workspace
	m.workspaces[ws.ID] = &ws
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*domain.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[id]
	if !ok {
		return nil, &domain.ErrNotFound{Entity: "workspace", ID: id}
	}
	copied := *ws
	return &copied, nil
}

func (m *memoryStore) UpdateFields(_ context.Context, id string, update domain.WorkspaceUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[id]
	if !ok {
		return &domain.ErrNotFound{Entity: "workspace", ID: id}
	}
	m.writes++
	if update.Name != nil {
		ws.Name = *update.Name
	}
	if update.Address != nil {
		ws.Address = *update.Address
	}
	if update.Timezone != nil {
		ws.Timezone = *update.Timezone
	}
	if update.ContactEmail != nil {
		ws.ContactEmail = *update.ContactEmail
	}
	if update.Slug != nil {
		ws.Slug = *update.Slug
	}
	if update.Status != nil {
		ws.Status = *update.Status
	}
	ws.OnboardingStep = max(ws.OnboardingStep, update.OnboardingStep)
	return nil
}

func (m *memoryStore) AdvanceOnboarding(ctx context.Context, id string, mark int) error {
	return m.UpdateFields(ctx, id, domain.WorkspaceUpdate{OnboardingStep: mark})
}

func (m *memoryStore) AdvanceOnboardingTx(ctx context.Context, _ *sql.Tx, id string, mark int) error {
	return m.AdvanceOnboarding(ctx, id, mark)
}

func (m *memoryStore) SetStatus(ctx context.Context, id string, status domain.WorkspaceStatus) error {
	return m.UpdateFields(ctx, id, domain.WorkspaceUpdate{Status: &status})
}

func (m *memoryStore) WithTransaction(_ context.Context, fn func(*sql.Tx) error) error {
	return fn(nil)
}

func (m *memoryStore) InsertServiceAndAdvance(ctx context.Context, service *domain.ServiceOffering, mark int) error {
	m.mu.Lock()
	m.services = append(m.services, service)
	m.mu.Unlock()
	return m.AdvanceOnboarding(ctx, service.WorkspaceID, mark)
}

func (m *memoryStore) InsertInventoryAndAdvance(ctx context.Context, item *domain.InventoryItem, mark int) error {
	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()
	return m.AdvanceOnboarding(ctx, item.WorkspaceID, mark)
}

// memorySession resolves its profile from a memoryStore
type memorySession struct {
	userID      string
	workspaceID string
	store       *memoryStore

	mu        sync.Mutex
	profile   *domain.Profile
	refreshes int
}

func newMemorySession(store *memoryStore, userID, workspaceID string) *memorySession {
	s := &memorySession{userID: userID, workspaceID: workspaceID, store: store}
	_ = s.Refresh(context.Background())
	s.refreshes = 0
	return s
}

func (s *memorySession) UserID() string { return s.userID }

func (s *memorySession) CurrentProfile() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *memorySession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++

	profile := &domain.Profile{ID: "profile-" + s.userID, UserID: s.userID}
	if s.workspaceID != "" {
		id := s.workspaceID
		profile.WorkspaceID = &id
		if ws, err := s.store.GetByID(ctx, id); err == nil {
			profile.WorkspaceStatus = ws.Status
			profile.OnboardingStep = ws.OnboardingStep
		}
	}
	s.profile = profile
	return nil
}

func (s *memorySession) WorkspaceID() string {
	return s.workspaceID
}

func (s *memorySession) WorkspaceStatus() domain.WorkspaceStatus {
	if p := s.CurrentProfile(); p != nil {
		return p.WorkspaceStatus
	}
	return ""
}

func (s *memorySession) OnboardingStep() int {
	if p := s.CurrentProfile(); p != nil {
		return p.OnboardingStep
	}
	return 0
}
