package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/internal/domain/mocks"
	"github.com/careops/careops/pkg/logger"
)

func testProfile(userID string, step int) *domain.Profile {
	workspaceID := "ws-" + userID
	return &domain.Profile{
		ID:              "profile-" + userID,
		UserID:          userID,
		WorkspaceID:     &workspaceID,
		DisplayName:     "Jo",
		WorkspaceStatus: domain.WorkspaceStatusProvisional,
		OnboardingStep:  step,
	}
}

func TestSessionContext_ResolvesProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 3), nil)

	session := NewSessionContext("user-1", repo, time.Second, logger.NewTestLogger(t))
	assert.True(t, session.Loading())
	assert.Nil(t, session.CurrentProfile())

	session.Init()
	require.NoError(t, session.WaitReady(context.Background()))

	assert.False(t, session.Loading())
	assert.Equal(t, testProfile("user-1", 3), session.CurrentProfile())
	assert.Equal(t, "user-1", session.UserID())
	assert.Equal(t, "ws-user-1", session.WorkspaceID())
	assert.Equal(t, domain.WorkspaceStatusProvisional, session.WorkspaceStatus())
	assert.Equal(t, 3, session.OnboardingStep())
}

func TestSessionContext_ProfileNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").
		Return(nil, &domain.ErrNotFound{Entity: "profile", ID: "user-1"})

	session := NewSessionContext("user-1", repo, time.Second, logger.NewTestLogger(t))
	session.Init()
	require.NoError(t, session.WaitReady(context.Background()))

	assert.Nil(t, session.CurrentProfile())
	assert.Empty(t, session.WorkspaceID())
	assert.Empty(t, session.WorkspaceStatus())
	assert.Zero(t, session.OnboardingStep())
}

func TestSessionContext_ResolveTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	repo := mocks.NewMockProfileRepository(ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").
		DoAndReturn(func(context.Context, string) (*domain.Profile, error) {
			<-release
			return testProfile("user-1", 2), nil
		})

	session := NewSessionContext("user-1", repo, 20*time.Millisecond, logger.NewTestLogger(t))
	session.Init()

	start := time.Now()
	require.NoError(t, session.WaitReady(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, session.Loading())
	assert.Nil(t, session.CurrentProfile(), "no profile while the fetch is still pending")

	close(release)
	assert.Eventually(t, func() bool {
		return session.CurrentProfile() != nil
	}, time.Second, 5*time.Millisecond)
}

func TestSessionContext_WaitReadyHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := NewSessionContext("user-1", mocks.NewMockProfileRepository(ctrl), time.Second, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, session.WaitReady(ctx), context.Canceled)
}

func TestSessionContext_RefreshFailureKeepsProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 2), nil),
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(nil, errors.New("connection refused")),
	)

	session := NewSessionContext("user-1", repo, time.Second, logger.NewTestLogger(t))
	require.NoError(t, session.Refresh(context.Background()))

	err := session.Refresh(context.Background())
	require.Error(t, err)
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "user-1", fetchErr.UserID)

	assert.Equal(t, 2, session.OnboardingStep())
}

func TestSessionContext_RefreshAfterWriteSeesWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var mu sync.Mutex
	status := domain.WorkspaceStatusProvisional
	snapshot := func() *domain.Profile {
		mu.Lock()
		defer mu.Unlock()
		p := testProfile("user-1", 7)
		p.WorkspaceStatus = status
		return p
	}

	started := make(chan struct{})
	release := make(chan struct{})
	repo := mocks.NewMockProfileRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").
			DoAndReturn(func(context.Context, string) (*domain.Profile, error) {
				p := snapshot()
				close(started)
				<-release
				return p, nil
			}),
		repo.EXPECT().GetByUserID(gomock.Any(), "user-1").
			DoAndReturn(func(context.Context, string) (*domain.Profile, error) {
				return snapshot(), nil
			}),
	)

	session := NewSessionContext("user-1", repo, time.Second, logger.NewTestLogger(t))

	slow := make(chan error, 1)
	go func() {
		slow <- session.Refresh(context.Background())
	}()
	<-started

	// the workspace is activated while the first read is in flight
	mu.Lock()
	status = domain.WorkspaceStatusActive
	mu.Unlock()

	require.NoError(t, session.Refresh(context.Background()))
	assert.Equal(t, domain.WorkspaceStatusActive, session.WorkspaceStatus())

	// the older read lands last and must not overwrite the newer one
	close(release)
	require.NoError(t, <-slow)
	assert.Equal(t, domain.WorkspaceStatusActive, session.WorkspaceStatus())
}

func TestSessionContext_Teardown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 2), nil)

	session := NewSessionContext("user-1", repo, time.Second, logger.NewTestLogger(t))
	require.NoError(t, session.Refresh(context.Background()))
	require.NotNil(t, session.CurrentProfile())

	session.Teardown()
	assert.Nil(t, session.CurrentProfile())
	assert.False(t, session.Loading())
	assert.NoError(t, session.WaitReady(context.Background()))

	// no further reads after teardown
	assert.NoError(t, session.Refresh(context.Background()))
	assert.Nil(t, session.CurrentProfile())
	assert.NotPanics(t, session.Teardown)
}

func TestSessionContext_TeardownDropsInFlightResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{})
	release := make(chan struct{})
	repo := mocks.NewMockProfileRepository(ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").
		DoAndReturn(func(context.Context, string) (*domain.Profile, error) {
			close(started)
			<-release
			return testProfile("user-1", 2), nil
		})

	session := NewSessionContext("user-1", repo, time.Second, logger.NewTestLogger(t))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = session.Refresh(context.Background())
	}()

	<-started
	session.Teardown()
	close(release)
	wg.Wait()

	assert.Nil(t, session.CurrentProfile())
}

func TestSessionContext_HandleAuthEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	repo.EXPECT().GetByUserID(gomock.Any(), "user-1").Return(testProfile("user-1", 5), nil).Times(2)

	session := NewSessionContext("user-1", repo, time.Second, logger.NewTestLogger(t))
	session.Init()
	require.NoError(t, session.WaitReady(context.Background()))

	require.NoError(t, session.HandleAuthEvent(domain.AuthEvent{Type: domain.AuthEventSignedOut, UserID: "user-1"}))
	assert.Nil(t, session.CurrentProfile())

	require.NoError(t, session.HandleAuthEvent(domain.AuthEvent{Type: domain.AuthEventSignedIn, UserID: "user-1"}))
	require.NoError(t, session.WaitReady(context.Background()))
	assert.Equal(t, 5, session.OnboardingStep())

	err := session.HandleAuthEvent(domain.AuthEvent{Type: domain.AuthEventSignedIn, UserID: "user-2"})
	assert.Error(t, err)

	err = session.HandleAuthEvent(domain.AuthEvent{Type: "TOKEN_REFRESHED", UserID: "user-1"})
	assert.Error(t, err)
}
