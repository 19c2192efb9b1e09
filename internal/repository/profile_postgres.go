package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain"
)

type profileRepository struct {
	systemDB *sql.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{systemDB: db}
}

// GetByUserID reads the profile joined with its workspace. A profile whose
// workspace row is missing comes back with zero workspace fields.
func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query, args, err := psql.
		Select(
			"p.id", "p.user_id", "p.workspace_id", "COALESCE(p.display_name, '')",
			"w.status", "w.onboarding_step", "p.created_at",
		).
		From("profiles p").
		LeftJoin("workspaces w ON w.id = p.workspace_id").
		Where(sq.Eq{"p.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		profile        domain.Profile
		workspaceID    sql.NullString
		status         sql.NullString
		onboardingStep sql.NullInt64
	)

	err = r.systemDB.QueryRowContext(ctx, query, args...).Scan(
		&profile.ID,
		&profile.UserID,
		&workspaceID,
		&profile.DisplayName,
		&status,
		&onboardingStep,
		&profile.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Entity: "profile", ID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if workspaceID.Valid {
		profile.WorkspaceID = &workspaceID.String
	}
	profile.WorkspaceStatus = domain.WorkspaceStatus(status.String)
	if onboardingStep.Valid {
		profile.OnboardingStep = int(onboardingStep.Int64)
	}

	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	return r.create(ctx, r.systemDB, profile)
}

func (r *profileRepository) CreateTx(ctx context.Context, tx *sql.Tx, profile *domain.Profile) error {
	return r.create(ctx, tx, profile)
}

func (r *profileRepository) create(ctx context.Context, db execer, profile *domain.Profile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile user id is required")
	}
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	profile.CreatedAt = now

	var workspaceID interface{}
	if profile.HasWorkspace() {
		workspaceID = *profile.WorkspaceID
	}

	query, args, err := psql.
		Insert("profiles").
		Columns("id", "user_id", "workspace_id", "display_name", "created_at", "updated_at").
		Values(profile.ID, profile.UserID, workspaceID, profile.DisplayName, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}
