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

// psql is a Squirrel StatementBuilder configured for PostgreSQL
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type workspaceRepository struct {
	systemDB *sql.DB
}

// NewWorkspaceRepository creates a new PostgreSQL workspace repository
func NewWorkspaceRepository(db *sql.DB) domain.WorkspaceRepository {
	return &workspaceRepository{systemDB: db}
}

// WithTransaction executes fn within a transaction, committing when it returns nil
func (r *workspaceRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.systemDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer rollback - this will be a no-op if we successfully commit
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *workspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	return r.create(ctx, r.systemDB, workspace)
}

func (r *workspaceRepository) CreateTx(ctx context.Context, tx *sql.Tx, workspace *domain.Workspace) error {
	return r.create(ctx, tx, workspace)
}

func (r *workspaceRepository) create(ctx context.Context, db execer, workspace *domain.Workspace) error {
	if workspace.ID == "" {
		workspace.ID = uuid.New().String()
	}
	if workspace.Status == "" {
		workspace.Status = domain.WorkspaceStatusProvisional
	}
	if workspace.Timezone == "" {
		workspace.Timezone = domain.DefaultTimezone
	}

	if err := workspace.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	var onboardingStep interface{}
	if workspace.OnboardingStep > 0 {
		onboardingStep = workspace.OnboardingStep
	}

	query, args, err := psql.
		Insert("workspaces").
		Columns(domain.WorkspaceColumns...).
		Values(
			workspace.ID, workspace.Name, workspace.Address, workspace.Timezone,
			workspace.ContactEmail, workspace.Slug, workspace.Status, onboardingStep,
			workspace.CreatedAt, workspace.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	return nil
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	query, args, err := psql.
		Select(domain.WorkspaceColumns...).
		From("workspaces").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	workspace, err := domain.ScanWorkspace(r.systemDB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Entity: "workspace", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return workspace, nil
}

func (r *workspaceRepository) UpdateFields(ctx context.Context, id string, update domain.WorkspaceUpdate) error {
	return r.updateFields(ctx, r.systemDB, id, update)
}

func (r *workspaceRepository) AdvanceOnboarding(ctx context.Context, id string, mark int) error {
	return r.updateFields(ctx, r.systemDB, id, domain.WorkspaceUpdate{OnboardingStep: mark})
}

func (r *workspaceRepository) AdvanceOnboardingTx(ctx context.Context, tx *sql.Tx, id string, mark int) error {
	return r.updateFields(ctx, tx, id, domain.WorkspaceUpdate{OnboardingStep: mark})
}

func (r *workspaceRepository) SetStatus(ctx context.Context, id string, status domain.WorkspaceStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid workspace status: %s", status)
	}
	return r.updateFields(ctx, r.systemDB, id, domain.WorkspaceUpdate{Status: &status})
}

// updateFields writes every set field of update in one UPDATE statement.
// onboarding_step goes through GREATEST so a lower mark never overwrites a higher one.
func (r *workspaceRepository) updateFields(ctx context.Context, db execer, id string, update domain.WorkspaceUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	builder := psql.Update("workspaces")
	if update.Name != nil {
		builder = builder.Set("name", *update.Name)
	}
	if update.Address != nil {
		builder = builder.Set("address", *update.Address)
	}
	if update.Timezone != nil {
		builder = builder.Set("timezone", *update.Timezone)
	}
	if update.ContactEmail != nil {
		builder = builder.Set("contact_email", *update.ContactEmail)
	}
	if update.Slug != nil {
		builder = builder.Set("slug", *update.Slug)
	}
	if update.Status != nil {
		builder = builder.Set("status", *update.Status)
	}
	if update.OnboardingStep > 0 {
		builder = builder.Set("onboarding_step", sq.Expr("GREATEST(COALESCE(onboarding_step, 0), ?)", update.OnboardingStep))
	}

	query, args, err := builder.
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "workspace", ID: id}
	}

	return nil
}
