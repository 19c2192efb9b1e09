package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination mocks/mock_session_provider.go -package mocks github.com/careops/careops/internal/domain SessionProvider
//go:generate mockgen -destination mocks/mock_session.go -package mocks github.com/careops/careops/internal/domain Session
//go:generate mockgen -destination mocks/mock_provisioning_service.go -package mocks github.com/careops/careops/internal/domain ProvisioningService

type AuthEventType string

const (
	AuthEventSignedIn    AuthEventType = "SIGNED_IN"
	AuthEventSignedOut   AuthEventType = "SIGNED_OUT"
	AuthEventUserCreated AuthEventType = "USER_CREATED"
)

// AuthEvent is an identity-provider notification about a user
type AuthEvent struct {
	Type         AuthEventType `json:"type"`
	UserID       string        `json:"user_id"`
	Email        string        `json:"email,omitempty"`
	BusinessName string        `json:"business_name,omitempty"`
	DisplayName  string        `json:"display_name,omitempty"`
}

func (e AuthEvent) Validate() error {
	switch e.Type {
	case AuthEventSignedIn, AuthEventSignedOut, AuthEventUserCreated:
	default:
		return fmt.Errorf("invalid auth event: unknown type %q", e.Type)
	}
	if e.UserID == "" {
		return fmt.Errorf("invalid auth event: user id is required")
	}
	return nil
}

// SessionProvider owns one Session per signed-in user
type SessionProvider interface {
	// Acquire returns the user's session, resolving it on first use
	Acquire(ctx context.Context, userID string) (Session, error)
	HandleAuthEvent(ctx context.Context, event AuthEvent) error
}

type ProvisioningService interface {
	// ProvisionAccount creates the workspace and profile for a new user.
	// Calling it again for the same user returns the existing profile.
	ProvisionAccount(ctx context.Context, event AuthEvent) (*Profile, error)
}
