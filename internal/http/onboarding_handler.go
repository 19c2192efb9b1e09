package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/internal/http/middleware"
	"github.com/careops/careops/pkg/logger"
	"github.com/careops/careops/pkg/ratelimiter"
)

// RateLimitNamespace is the limiter namespace for wizard writes
const RateLimitNamespace = "onboarding"

type OnboardingHandler struct {
	onboarding     domain.OnboardingService
	sessions       domain.SessionProvider
	rateLimiter    *ratelimiter.RateLimiter
	logger         logger.Logger
	authMiddleware *middleware.AuthConfig
}

func NewOnboardingHandler(
	onboarding domain.OnboardingService,
	sessions domain.SessionProvider,
	rateLimiter *ratelimiter.RateLimiter,
	authMiddleware *middleware.AuthConfig,
	logger logger.Logger,
) *OnboardingHandler {
	return &OnboardingHandler{
		onboarding:     onboarding,
		sessions:       sessions,
		rateLimiter:    rateLimiter,
		logger:         logger,
		authMiddleware: authMiddleware,
	}
}

type SaveEmailRequest struct {
	ContactEmail string `json:"contact_email"`
}

type GoToRequest struct {
	Step domain.Step `json:"step"`
}

func (h *OnboardingHandler) RegisterRoutes(mux *http.ServeMux) {
	auth := h.authMiddleware.RequireAuth()

	mux.Handle("/api/onboarding.state", auth(http.HandlerFunc(h.handleState)))
	mux.Handle("/api/onboarding.enter", auth(http.HandlerFunc(h.handleEnter)))
	mux.Handle("/api/onboarding.saveWorkspace", auth(http.HandlerFunc(h.handleSaveWorkspace)))
	mux.Handle("/api/onboarding.saveEmail", auth(http.HandlerFunc(h.handleSaveEmail)))
	mux.Handle("/api/onboarding.createService", auth(http.HandlerFunc(h.handleCreateService)))
	mux.Handle("/api/onboarding.addInventoryItem", auth(http.HandlerFunc(h.handleAddInventoryItem)))
	mux.Handle("/api/onboarding.skip", auth(http.HandlerFunc(h.handleSkip)))
	mux.Handle("/api/onboarding.goto", auth(http.HandlerFunc(h.handleGoTo)))
	mux.Handle("/api/onboarding.activate", auth(http.HandlerFunc(h.handleActivate)))
	mux.Handle("/api/onboarding.leave", auth(http.HandlerFunc(h.handleLeave)))
}

// session resolves the caller's session, writing the error response itself
// when that fails
func (h *OnboardingHandler) session(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
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

// write is the common prelude of every state-changing route
func (h *OnboardingHandler) write(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	session, ok := h.session(w, r)
	if !ok {
		return nil, false
	}

	if !h.rateLimiter.Allow(RateLimitNamespace, session.UserID()) {
		retryAfter := h.rateLimiter.RetryAfter(RateLimitNamespace, session.UserID())
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		WriteJSONError(w, "Too many requests, please slow down", http.StatusTooManyRequests)
		return nil, false
	}

	return session, true
}

func (h *OnboardingHandler) respond(w http.ResponseWriter, result *domain.TransitionResult, err error) {
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoWorkspace):
			WriteJSONError(w, domain.ErrNoWorkspace.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrSaveInProgress):
			WriteJSONError(w, err.Error(), http.StatusConflict)
		default:
			h.logger.WithField("error", err.Error()).Error("Onboarding operation failed")
			WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, statusForOutcome(result.Outcome), result)
}

func statusForOutcome(outcome domain.TransitionOutcome) int {
	switch outcome {
	case domain.OutcomeValidationError:
		return http.StatusBadRequest
	case domain.OutcomeTransientError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

func (h *OnboardingHandler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	result, err := h.onboarding.State(r.Context(), session)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleEnter(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	result, err := h.onboarding.Enter(r.Context(), session)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleSaveWorkspace(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	var draft domain.WorkspaceDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	result, err := h.onboarding.SaveWorkspace(r.Context(), session, draft)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleSaveEmail(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	var req SaveEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.onboarding.SaveEmail(r.Context(), session, req.ContactEmail)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	var draft domain.ServiceDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	result, err := h.onboarding.CreateService(r.Context(), session, draft)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleAddInventoryItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	var draft domain.InventoryDraft
	if !decodeBody(w, r, &draft) {
		return
	}

	result, err := h.onboarding.AddInventoryItem(r.Context(), session, draft)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleSkip(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	result, err := h.onboarding.Skip(r.Context(), session)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleGoTo(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	var req GoToRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.onboarding.GoTo(r.Context(), session, req.Step)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleActivate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	result, err := h.onboarding.Activate(r.Context(), session)
	h.respond(w, result, err)
}

func (h *OnboardingHandler) handleLeave(w http.ResponseWriter, r *http.Request) {
	session, ok := h.write(w, r)
	if !ok {
		return
	}

	if err := h.onboarding.Leave(r.Context(), session); err != nil {
		h.respond(w, nil, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
