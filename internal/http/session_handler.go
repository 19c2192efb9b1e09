package http

import (
	"errors"
	"net/http"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/internal/http/middleware"
	"github.com/careops/careops/pkg/logger"
)

// SessionHandler exposes the caller's resolved profile
type SessionHandler struct {
	sessions       domain.SessionProvider
	authMiddleware *middleware.AuthConfig
	logger         logger.Logger
}

func NewSessionHandler(sessions domain.SessionProvider, authMiddleware *middleware.AuthConfig, logger logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:       sessions,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

// ProfileResponse carries a nil profile when the user has none yet
type ProfileResponse struct {
	Profile *domain.Profile `json:"profile"`
}

func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	auth := h.authMiddleware.RequireAuth()

	mux.Handle("/api/session.profile", auth(http.HandlerFunc(h.handleProfile)))
	mux.Handle("/api/session.refresh", auth(http.HandlerFunc(h.handleRefresh)))
	mux.Handle("/api/session.signOut", auth(http.HandlerFunc(h.handleSignOut)))
}

func (h *SessionHandler) acquire(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	session, err := h.sessions.Acquire(r.Context(), userID)
	if err != nil {
		h.logger.WithField("user_id", userID).WithField("error", err.Error()).Error("Failed to acquire session")
		WriteJSONError(w, "Failed to resolve session", http.StatusServiceUnavailable)
		return nil, false
	}

	return session, true
}

func (h *SessionHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.acquire(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Profile: session.CurrentProfile()})
}

func (h *SessionHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.acquire(w, r)
	if !ok {
		return
	}

	if err := session.Refresh(r.Context()); err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			WriteJSONError(w, "Failed to refresh profile", http.StatusServiceUnavailable)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to refresh session")
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Profile: session.CurrentProfile()})
}

func (h *SessionHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	event := domain.AuthEvent{Type: domain.AuthEventSignedOut, UserID: userID}
	if err := h.sessions.HandleAuthEvent(r.Context(), event); err != nil {
		h.logger.WithField("user_id", userID).WithField("error", err.Error()).Error("Failed to sign out")
		WriteJSONError(w, "Failed to sign out", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
