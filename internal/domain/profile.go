package domain

import (
	"context"
	"database/sql"
	"time"
)

//go:generate mockgen -destination mocks/mock_profile_repository.go -package mocks github.com/careops/careops/internal/domain ProfileRepository

// Profile is a user's profile joined with the workspace it belongs to.
// WorkspaceStatus and OnboardingStep are zero when no workspace is linked.
type Profile struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	WorkspaceID     *string         `json:"workspace_id"`
	DisplayName     string          `json:"display_name"`
	WorkspaceStatus WorkspaceStatus `json:"workspace_status,omitempty"`
	OnboardingStep  int             `json:"onboarding_step"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (p *Profile) HasWorkspace() bool {
	return p != nil && p.WorkspaceID != nil && *p.WorkspaceID != ""
}

type ProfileRepository interface {
	// GetByUserID returns the profile with its workspace fields, or *ErrNotFound
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	CreateTx(ctx context.Context, tx *sql.Tx, profile *Profile) error
}
