package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/pkg/logger"
	"github.com/careops/careops/pkg/slug"
	"github.com/careops/careops/pkg/tracing"
)

const defaultBusinessName = "My Business"

// ProvisioningService creates the provisional workspace and profile for a
// newly registered user
type ProvisioningService struct {
	workspaceRepo domain.WorkspaceRepository
	profileRepo   domain.ProfileRepository
	logger        logger.Logger
}

func NewProvisioningService(workspaceRepo domain.WorkspaceRepository, profileRepo domain.ProfileRepository, logger logger.Logger) *ProvisioningService {
	return &ProvisioningService{
		workspaceRepo: workspaceRepo,
		profileRepo:   profileRepo,
		logger:        logger,
	}
}

// ProvisionAccount is idempotent: a user that already has a profile gets it
// back unchanged.
func (s *ProvisioningService) ProvisionAccount(ctx context.Context, event domain.AuthEvent) (*domain.Profile, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "ProvisioningService", "ProvisionAccount")
	defer span.End()
	tracing.AddAttribute(ctx, "user_id", event.UserID)

	if event.Type != domain.AuthEventUserCreated {
		return nil, fmt.Errorf("unexpected auth event type for provisioning: %s", event.Type)
	}
	if event.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	existing, err := s.profileRepo.GetByUserID(ctx, event.UserID)
	if err == nil {
		s.logger.WithField("user_id", event.UserID).Info("Account already provisioned")
		return existing, nil
	}
	if !domain.IsNotFound(err) {
		tracing.MarkSpanError(ctx, err)
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	name := strings.TrimSpace(event.BusinessName)
	if name == "" {
		name = defaultBusinessName
	}

	workspaceID := uuid.New().String()
	workspace := &domain.Workspace{
		ID:             workspaceID,
		Name:           name,
		Timezone:       domain.DefaultTimezone,
		Slug:           slug.Make(name),
		Status:         domain.WorkspaceStatusProvisional,
		OnboardingStep: int(domain.StepWorkspace),
	}
	profile := &domain.Profile{
		UserID:         event.UserID,
		WorkspaceID:    &workspaceID,
		DisplayName:    strings.TrimSpace(event.DisplayName),
		OnboardingStep: workspace.OnboardingStep,
	}

	err = s.workspaceRepo.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.workspaceRepo.CreateTx(ctx, tx, workspace); err != nil {
			return err
		}
		return s.profileRepo.CreateTx(ctx, tx, profile)
	})
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		s.logger.WithField("user_id", event.UserID).
			WithField("error", err.Error()).
			Error("Failed to provision account")
		return nil, fmt.Errorf("failed to provision account: %w", err)
	}

	profile.WorkspaceStatus = workspace.Status

	s.logger.WithField("user_id", event.UserID).
		WithField("workspace_id", workspaceID).
		Info("Provisioned workspace for new account")

	return profile, nil
}

var _ domain.ProvisioningService = (*ProvisioningService)(nil)
