package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Entity: "workspace", ID: "ws-1"}
	assert.Equal(t, "workspace not found with ID: ws-1", err.Error())
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("workspace name is required")
	assert.Equal(t, "validation error: workspace name is required", err.Error())
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(errors.New("other")))
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &FetchError{UserID: "user-1", Err: cause}
	assert.Contains(t, err.Error(), "user-1")
	assert.ErrorIs(t, err, cause)
}

func TestTransientError(t *testing.T) {
	err := &TransientError{Op: "save workspace", Err: context.DeadlineExceeded}
	assert.Equal(t, "save workspace failed: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAuthEvent_Validate(t *testing.T) {
	assert.NoError(t, AuthEvent{Type: AuthEventSignedIn, UserID: "u"}.Validate())
	assert.NoError(t, AuthEvent{Type: AuthEventUserCreated, UserID: "u", BusinessName: "Acme"}.Validate())
	assert.Error(t, AuthEvent{Type: "TOKEN_REFRESHED", UserID: "u"}.Validate())
	assert.Error(t, AuthEvent{Type: AuthEventSignedOut}.Validate())
}

func TestProfile_HasWorkspace(t *testing.T) {
	var nilProfile *Profile
	assert.False(t, nilProfile.HasWorkspace())
	assert.False(t, (&Profile{}).HasWorkspace())

	empty := ""
	assert.False(t, (&Profile{WorkspaceID: &empty}).HasWorkspace())

	id := "ws-1"
	assert.True(t, (&Profile{WorkspaceID: &id}).HasWorkspace())
}
