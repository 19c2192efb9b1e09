package domain

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_workspace_repository.go -package mocks github.com/careops/careops/internal/domain WorkspaceRepository

type WorkspaceStatus string

const (
	WorkspaceStatusProvisional WorkspaceStatus = "provisional"
	WorkspaceStatusActive      WorkspaceStatus = "active"
	WorkspaceStatusInactive    WorkspaceStatus = "inactive"
)

func (s WorkspaceStatus) IsValid() bool {
	switch s {
	case WorkspaceStatusProvisional, WorkspaceStatusActive, WorkspaceStatusInactive:
		return true
	}
	return false
}

const DefaultTimezone = "UTC"

// Workspace is the tenant a profile belongs to. OnboardingStep is the highest
// wizard step ever durably reached; 0 means it was never written.
type Workspace struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address,omitempty"`
	Timezone       string          `json:"timezone"`
	ContactEmail   string          `json:"contact_email,omitempty"`
	Slug           string          `json:"slug,omitempty"`
	Status         WorkspaceStatus `json:"status"`
	OnboardingStep int             `json:"onboarding_step"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Validate performs validation on the workspace fields
func (w *Workspace) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("invalid workspace: id is required")
	}
	if len(w.Name) > 255 {
		return fmt.Errorf("invalid workspace: name length must be between 0 and 255")
	}
	if !w.Status.IsValid() {
		return fmt.Errorf("invalid workspace: unknown status %q", w.Status)
	}
	if w.OnboardingStep < 0 || w.OnboardingStep > int(StepActivate) {
		return fmt.Errorf("invalid workspace: onboarding_step must be between 0 and %d", StepActivate)
	}
	if w.Timezone != "" {
		if err := ValidateTimezone(w.Timezone); err != nil {
			return fmt.Errorf("invalid workspace: %w", err)
		}
	}
	return nil
}

// ValidateTimezone checks tz against the IANA database
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone: %s", tz)
	}
	return nil
}

// ScanWorkspace scans a workspace row selected with WorkspaceColumns
func ScanWorkspace(scanner interface {
	Scan(dest ...interface{}) error
}) (*Workspace, error) {
	var (
		w              Workspace
		address        sql.NullString
		timezone       sql.NullString
		contactEmail   sql.NullString
		slug           sql.NullString
		onboardingStep sql.NullInt64
	)

	if err := scanner.Scan(
		&w.ID,
		&w.Name,
		&address,
		&timezone,
		&contactEmail,
		&slug,
		&w.Status,
		&onboardingStep,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return nil, err
	}

	w.Address = address.String
	w.Timezone = timezone.String
	w.ContactEmail = contactEmail.String
	w.Slug = slug.String
	if onboardingStep.Valid {
		w.OnboardingStep = int(onboardingStep.Int64)
	}

	return &w, nil
}

// WorkspaceColumns is the column order ScanWorkspace expects
var WorkspaceColumns = []string{
	"id", "name", "address", "timezone", "contact_email", "slug",
	"status", "onboarding_step", "created_at", "updated_at",
}

// WorkspaceUpdate is a partial update. Nil fields are left untouched.
// OnboardingStep, when positive, is merged with the stored value using
// GREATEST so the high-water mark never decreases.
type WorkspaceUpdate struct {
	Name           *string
	Address        *string
	Timezone       *string
	ContactEmail   *string
	Slug           *string
	Status         *WorkspaceStatus
	OnboardingStep int
}

func (u WorkspaceUpdate) IsEmpty() bool {
	return u.Name == nil && u.Address == nil && u.Timezone == nil &&
		u.ContactEmail == nil && u.Slug == nil && u.Status == nil &&
		u.OnboardingStep <= 0
}

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	CreateTx(ctx context.Context, tx *sql.Tx, workspace *Workspace) error
	GetByID(ctx context.Context, id string) (*Workspace, error)

	// UpdateFields applies update in a single statement
	UpdateFields(ctx context.Context, id string, update WorkspaceUpdate) error

	// AdvanceOnboarding raises onboarding_step to mark, never lowering it
	AdvanceOnboarding(ctx context.Context, id string, mark int) error
	AdvanceOnboardingTx(ctx context.Context, tx *sql.Tx, id string, mark int) error

	SetStatus(ctx context.Context, id string, status WorkspaceStatus) error

	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}
