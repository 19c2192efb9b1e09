package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/internal/domain/mocks"
	"github.com/careops/careops/pkg/logger"
)

func newTestRegistry(t *testing.T, ctrl *gomock.Controller) (*SessionRegistry, *mocks.MockProfileRepository, *mocks.MockProvisioningService) {
	repo := mocks.NewMockProfileRepository(ctrl)
	provisioning := mocks.NewMockProvisioningService(ctrl)
	registry := NewSessionRegistry(repo, provisioning, SessionRegistryConfig{
		ResolveTimeout: time.Second,
		IdleTTL:        time.Hour,
	}, logger.NewTestLogger(t))
	t.Cleanup(registry.Close)
	return registry, repo, provisioning
}

func TestSessionRegistry_Acquire(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, repo, _ := newTestRegistry(t, ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 2), nil).Times(1)

	first, err := registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.OnboardingStep())

	second, err := registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())

	_, err = registry.Acquire(context.Background(), "")
	assert.Error(t, err)
}

func TestSessionRegistry_SignOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, repo, _ := newTestRegistry(t, ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 2), nil)

	var signedOut []string
	registry.OnSignOut(func(userID string) { signedOut = append(signedOut, userID) })

	session, err := registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)

	err = registry.HandleAuthEvent(context.Background(), domain.AuthEvent{Type: domain.AuthEventSignedOut, UserID: "user-1"})
	require.NoError(t, err)

	assert.Nil(t, session.CurrentProfile())
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, []string{"user-1"}, signedOut)
}

func TestSessionRegistry_SignIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, repo, _ := newTestRegistry(t, ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 1), nil)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 3), nil)

	event := domain.AuthEvent{Type: domain.AuthEventSignedIn, UserID: "user-1"}
	require.NoError(t, registry.HandleAuthEvent(context.Background(), event))
	assert.Equal(t, 1, registry.Len())

	session, err := registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.OnboardingStep())

	// a second sign-in re-resolves the existing session
	require.NoError(t, registry.HandleAuthEvent(context.Background(), event))
	session, err = registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, session.OnboardingStep())
}

func TestSessionRegistry_UserCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, repo, provisioning := newTestRegistry(t, ctrl)
	event := domain.AuthEvent{Type: domain.AuthEventUserCreated, UserID: "user-1", BusinessName: "Acme"}

	gomock.InOrder(
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").
			Return(nil, &domain.ErrNotFound{Entity: "profile", ID: "user-1"}),
		provisioning.EXPECT().ProvisionAccount(gomock.Any(), event).Return(testProfile("user-1", 1), nil),
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 1), nil),
	)

	session, err := registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, session.CurrentProfile())

	require.NoError(t, registry.HandleAuthEvent(context.Background(), event))

	session, err = registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ws-user-1", session.WorkspaceID())
}

func TestSessionRegistry_UserCreatedProvisioningFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, _, provisioning := newTestRegistry(t, ctrl)
	provisioning.EXPECT().ProvisionAccount(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	err := registry.HandleAuthEvent(context.Background(), domain.AuthEvent{Type: domain.AuthEventUserCreated, UserID: "user-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to provision account")
}

func TestSessionRegistry_InvalidEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, _, _ := newTestRegistry(t, ctrl)

	assert.Error(t, registry.HandleAuthEvent(context.Background(), domain.AuthEvent{Type: domain.AuthEventSignedIn}))
	assert.Error(t, registry.HandleAuthEvent(context.Background(), domain.AuthEvent{Type: "PASSWORD_RECOVERY", UserID: "user-1"}))
}

func TestSessionRegistry_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, repo, _ := newTestRegistry(t, ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, userID string) (*domain.Profile, error) {
			return testProfile(userID, 1), nil
		}).Times(2)

	a, err := registry.Acquire(context.Background(), "user-a")
	require.NoError(t, err)
	b, err := registry.Acquire(context.Background(), "user-b")
	require.NoError(t, err)

	registry.Close()
	assert.Equal(t, 0, registry.Len())
	assert.Nil(t, a.CurrentProfile())
	assert.Nil(t, b.CurrentProfile())
}

func TestSessionRegistry_EvictsIdleSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, repo, _ := newTestRegistry(t, ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, userID string) (*domain.Profile, error) {
			return testProfile(userID, 2), nil
		}).Times(3)

	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	idle, err := registry.Acquire(context.Background(), "user-idle")
	require.NoError(t, err)
	_, err = registry.Acquire(context.Background(), "user-active")
	require.NoError(t, err)

	now = now.Add(40 * time.Minute)
	_, err = registry.Acquire(context.Background(), "user-active")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, registry.evictIdle())
	assert.Equal(t, 1, registry.Len())
	assert.Nil(t, idle.CurrentProfile())

	// an evicted user gets a fresh session on the next request
	again, err := registry.Acquire(context.Background(), "user-idle")
	require.NoError(t, err)
	assert.NotSame(t, idle, again)
	assert.Equal(t, 2, again.OnboardingStep())
	assert.Equal(t, 2, registry.Len())
}

func TestSessionRegistry_RetriesFailedResolution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, repo, _ := newTestRegistry(t, ctrl)
	gomock.InOrder(
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(nil, errors.New("connection refused")),
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 3), nil),
	)

	session, err := registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, session.CurrentProfile())

	session, err = registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, session.OnboardingStep())

	// resolved sessions are not fetched again
	session, err = registry.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, session.OnboardingStep())
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, 30*time.Second, sweepInterval(time.Minute))
	assert.Equal(t, time.Minute, sweepInterval(2*time.Hour))
}
