package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/pkg/logger"
	"github.com/careops/careops/pkg/tracing"
)

// SessionRegistryConfig holds session lifecycle settings
type SessionRegistryConfig struct {
	ResolveTimeout time.Duration
	// Sessions not acquired for this long are torn down and dropped
	IdleTTL time.Duration
}

type sessionEntry struct {
	session  *SessionContext
	lastUsed time.Time
}

// SessionRegistry owns one SessionContext per signed-in user
type SessionRegistry struct {
	profileRepo  domain.ProfileRepository
	provisioning domain.ProvisioningService
	config       SessionRegistryConfig
	logger       logger.Logger
	now          func() time.Time

	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	onSignOut []func(userID string)

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionRegistry(
	profileRepo domain.ProfileRepository,
	provisioning domain.ProvisioningService,
	config SessionRegistryConfig,
	logger logger.Logger,
) *SessionRegistry {
	r := &SessionRegistry{
		profileRepo:  profileRepo,
		provisioning: provisioning,
		config:       config,
		logger:       logger,
		now:          time.Now,
		sessions:     make(map[string]*sessionEntry),
		stop:         make(chan struct{}),
	}

	if config.IdleTTL > 0 {
		go r.startEviction(sweepInterval(config.IdleTTL))
	}

	return r
}

func sweepInterval(idleTTL time.Duration) time.Duration {
	if idleTTL < 2*time.Minute {
		return idleTTL / 2
	}
	return time.Minute
}

// OnSignOut registers a hook called after a user's session is torn down
func (r *SessionRegistry) OnSignOut(fn func(userID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSignOut = append(r.onSignOut, fn)
}

// Acquire returns the user's session, creating and resolving it on first use.
// A session whose last resolution failed is resolved again. Acquire waits
// until resolution finishes or the resolve timeout elapses.
func (r *SessionRegistry) Acquire(ctx context.Context, userID string) (domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	session := r.getOrCreate(userID)
	if session.retryResolution() {
		r.logger.WithField("user_id", userID).Info("Retrying profile resolution after failed fetch")
	}
	if err := session.WaitReady(ctx); err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return session, nil
}

func (r *SessionRegistry) getOrCreate(userID string) *SessionContext {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[userID]; ok {
		e.lastUsed = r.now()
		return e.session
	}

	session := NewSessionContext(userID, r.profileRepo, r.config.ResolveTimeout, r.logger)
	r.sessions[userID] = &sessionEntry{session: session, lastUsed: r.now()}
	session.Init()

	return session
}

func (r *SessionRegistry) lookup(userID string) (*SessionContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

func (r *SessionRegistry) startEviction(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stop:
			return
		}
	}
}

// evictIdle tears down sessions not acquired within the idle TTL
func (r *SessionRegistry) evictIdle() int {
	now := r.now()

	r.mu.Lock()
	var idle []*SessionContext
	for userID, e := range r.sessions {
		if now.Sub(e.lastUsed) > r.config.IdleTTL {
			idle = append(idle, e.session)
			delete(r.sessions, userID)
		}
	}
	r.mu.Unlock()

	for _, session := range idle {
		session.Teardown()
	}
	if len(idle) > 0 {
		r.logger.WithField("count", len(idle)).Debug("Evicted idle sessions")
	}
	return len(idle)
}

// HandleAuthEvent routes an identity-provider event to the user's session
func (r *SessionRegistry) HandleAuthEvent(ctx context.Context, event domain.AuthEvent) error {
	ctx, span := tracing.StartServiceSpan(ctx, "SessionRegistry", "HandleAuthEvent")
	defer span.End()
	tracing.AddAttribute(ctx, "event_type", string(event.Type))
	tracing.AddAttribute(ctx, "user_id", event.UserID)

	if err := event.Validate(); err != nil {
		tracing.MarkSpanError(ctx, err)
		return err
	}

	switch event.Type {
	case domain.AuthEventSignedIn:
		session, ok := r.lookup(event.UserID)
		if !ok {
			r.getOrCreate(event.UserID)
			return nil
		}
		return session.HandleAuthEvent(event)

	case domain.AuthEventSignedOut:
		r.mu.Lock()
		e, ok := r.sessions[event.UserID]
		delete(r.sessions, event.UserID)
		hooks := append([]func(string){}, r.onSignOut...)
		r.mu.Unlock()

		if ok {
			e.session.Teardown()
		}
		for _, hook := range hooks {
			hook(event.UserID)
		}
		return nil

	case domain.AuthEventUserCreated:
		if r.provisioning == nil {
			return fmt.Errorf("account provisioning is not configured")
		}
		if _, err := r.provisioning.ProvisionAccount(ctx, event); err != nil {
			tracing.MarkSpanError(ctx, err)
			r.logger.WithField("user_id", event.UserID).
				WithField("error", err.Error()).
				Error("Failed to provision account")
			return fmt.Errorf("failed to provision account: %w", err)
		}

		if session, ok := r.lookup(event.UserID); ok {
			return session.HandleAuthEvent(event)
		}
		return nil
	}

	return nil
}

// Close stops idle eviction and tears down every session
func (r *SessionRegistry) Close() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})

	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*sessionEntry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.session.Teardown()
	}
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

var _ domain.SessionProvider = (*SessionRegistry)(nil)
