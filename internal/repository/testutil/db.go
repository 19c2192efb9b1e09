package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/careops/careops/internal/domain"
)

// SetupMockDB creates a mock database connection for testing
func SetupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

// WorkspaceRows returns sqlmock rows in domain.WorkspaceColumns order.
// An OnboardingStep of 0 is returned as NULL.
func WorkspaceRows(workspaces ...*domain.Workspace) *sqlmock.Rows {
	rows := sqlmock.NewRows(domain.WorkspaceColumns)
	for _, w := range workspaces {
		var step interface{}
		if w.OnboardingStep > 0 {
			step = int64(w.OnboardingStep)
		}
		createdAt, updatedAt := w.CreatedAt, w.UpdatedAt
		if createdAt.IsZero() {
			createdAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
		rows.AddRow(
			w.ID, w.Name, w.Address, w.Timezone, w.ContactEmail, w.Slug,
			string(w.Status), step, createdAt, updatedAt,
		)
	}
	return rows
}

// ProfileColumns matches the select list of the profile repository
var ProfileColumns = []string{"id", "user_id", "workspace_id", "display_name", "status", "onboarding_step", "created_at"}

// ProfileRow returns a single joined profile row. A nil workspaceID yields
// the shape of a profile with no linked workspace.
func ProfileRow(id, userID string, workspaceID *string, displayName string, status domain.WorkspaceStatus, step int) *sqlmock.Rows {
	var (
		ws     interface{}
		st     interface{}
		stepV  interface{}
		joined = workspaceID != nil
	)
	if joined {
		ws = *workspaceID
		st = string(status)
		if step > 0 {
			stepV = int64(step)
		}
	}
	return sqlmock.NewRows(ProfileColumns).
		AddRow(id, userID, ws, displayName, st, stepV, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}
