package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/pkg/logger"
	"github.com/careops/careops/pkg/tracing"
)

// SessionContext holds one authenticated user's resolved profile.
//
// Resolution runs in the background. Loading reports true until it finishes
// or the resolve timeout elapses, whichever comes first; after the timeout the
// session reads as "no profile" until the pending fetch lands.
type SessionContext struct {
	userID         string
	repo           domain.ProfileRepository
	logger         logger.Logger
	resolveTimeout time.Duration

	mu         sync.RWMutex
	profile    *domain.Profile
	loading    bool
	ready      chan struct{}
	generation uint64
	tornDown   bool
	baseCtx    context.Context
	cancel     context.CancelFunc

	group      singleflight.Group
	epoch       atomic.Uint64
	appliedSeq  uint64
	fetchFailed bool
}

// NewSessionContext creates an unresolved session. Call Init to start resolution.
func NewSessionContext(userID string, repo domain.ProfileRepository, resolveTimeout time.Duration, logger logger.Logger) *SessionContext {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &SessionContext{
		userID:         userID,
		repo:           repo,
		logger:         logger,
		resolveTimeout: resolveTimeout,
		loading:        true,
		ready:          make(chan struct{}),
		baseCtx:        baseCtx,
		cancel:         cancel,
	}
}

// Init starts profile resolution and returns immediately
func (s *SessionContext) Init() {
	s.startResolution()
}

func (s *SessionContext) startResolution() {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return
	}
	if !s.loading {
		s.loading = true
		s.ready = make(chan struct{})
	}
	s.generation++
	gen := s.generation
	baseCtx := s.baseCtx
	s.mu.Unlock()

	// the fetch outlives the caller's request but not the session
	fetchCtx, cancel := context.WithCancel(baseCtx)

	timer := time.AfterFunc(s.resolveTimeout, func() {
		s.finishLoading(gen, true)
	})

	go func() {
		defer cancel()
		_ = s.Refresh(fetchCtx)
		timer.Stop()
		s.finishLoading(gen, false)
	}()
}

func (s *SessionContext) finishLoading(gen uint64, timedOut bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || !s.loading {
		return
	}
	s.loading = false
	close(s.ready)

	if timedOut {
		s.logger.WithField("user_id", s.userID).
			WithField("timeout", s.resolveTimeout.String()).
			Warn("Profile resolution exceeded timeout, continuing without profile")
	}
}

// Loading reports whether profile resolution is still pending
func (s *SessionContext) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// WaitReady blocks until Loading is false or ctx is done
func (s *SessionContext) WaitReady(ctx context.Context) error {
	s.mu.RLock()
	loading, ready := s.loading, s.ready
	s.mu.RUnlock()

	if !loading {
		return nil
	}

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SessionContext) UserID() string {
	return s.userID
}

// CurrentProfile returns a copy of the cached profile, or nil
func (s *SessionContext) CurrentProfile() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *SessionContext) WorkspaceID() string {
	p := s.CurrentProfile()
	if !p.HasWorkspace() {
		return ""
	}
	return *p.WorkspaceID
}

func (s *SessionContext) WorkspaceStatus() domain.WorkspaceStatus {
	if p := s.CurrentProfile(); p != nil {
		return p.WorkspaceStatus
	}
	return ""
}

func (s *SessionContext) OnboardingStep() int {
	if p := s.CurrentProfile(); p != nil {
		return p.OnboardingStep
	}
	return 0
}

// Refresh re-reads the profile. A missing profile clears the cache; any other
// failure is logged, leaves the cached profile in place and returns a
// *domain.FetchError. Calls share a read only when they arrive before that
// read starts, so a refresh issued after a write always observes it.
func (s *SessionContext) Refresh(ctx context.Context) error {
	s.mu.RLock()
	tornDown := s.tornDown
	s.mu.RUnlock()
	if tornDown {
		return nil
	}

	ctx, span := tracing.StartServiceSpan(ctx, "SessionContext", "Refresh")
	defer span.End()
	tracing.AddAttribute(ctx, "user_id", s.userID)

	key := s.userID + ":" + strconv.FormatUint(s.epoch.Load(), 10)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// later callers get a new key and their own read
		seq := s.epoch.Add(1)
		profile, err := s.repo.GetByUserID(ctx, s.userID)
		return profileRead{profile: profile, seq: seq}, err
	})

	read, _ := v.(profileRead)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.WithField("user_id", s.userID).Info("No profile found for user")
			s.setProfile(nil, read.seq)
			return nil
		}

		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("user_id", s.userID).
			WithField("error", err.Error()).
			Error("Failed to fetch profile")
		s.mu.Lock()
		s.fetchFailed = true
		s.mu.Unlock()
		return &domain.FetchError{UserID: s.userID, Err: err}
	}

	s.setProfile(read.profile, read.seq)
	return nil
}

type profileRead struct {
	profile *domain.Profile
	seq     uint64
}

// setProfile stores the result of read seq unless a later read already landed
func (s *SessionContext) setProfile(p *domain.Profile, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tornDown || seq < s.appliedSeq {
		return
	}
	s.appliedSeq = seq
	s.profile = p
	s.fetchFailed = false
}

// retryResolution restarts resolution when the last read failed and left the
// session without a profile. It reports whether a retry was started.
func (s *SessionContext) retryResolution() bool {
	s.mu.Lock()
	retry := !s.tornDown && !s.loading && s.profile == nil && s.fetchFailed
	if retry {
		s.fetchFailed = false
	}
	s.mu.Unlock()

	if retry {
		s.startResolution()
	}
	return retry
}

// Teardown clears the identity and profile. Later refreshes are no-ops until
// a sign-in event revives the session.
func (s *SessionContext) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tornDown {
		return
	}
	s.tornDown = true
	s.profile = nil
	s.cancel()
	if s.loading {
		s.loading = false
		close(s.ready)
	}
}

// HandleAuthEvent applies an identity-provider event to this session
func (s *SessionContext) HandleAuthEvent(event domain.AuthEvent) error {
	if event.UserID != s.userID {
		return fmt.Errorf("auth event for user %s routed to session of %s", event.UserID, s.userID)
	}

	switch event.Type {
	case domain.AuthEventSignedIn, domain.AuthEventUserCreated:
		s.revive()
		s.startResolution()
	case domain.AuthEventSignedOut:
		s.Teardown()
	default:
		return fmt.Errorf("unsupported auth event type: %s", event.Type)
	}

	return nil
}

func (s *SessionContext) revive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tornDown {
		return
	}
	s.tornDown = false
	s.baseCtx, s.cancel = context.WithCancel(context.Background())
}

var _ domain.Session = (*SessionContext)(nil)
