package http

import (
	"fmt"
	"io"
	"net/http"

	svix "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/tidwall/gjson"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/pkg/logger"
)

// AuthWebhookHandler receives identity-provider events signed with the
// Standard Webhooks scheme
type AuthWebhookHandler struct {
	sessions domain.SessionProvider
	secret   string
	logger   logger.Logger
}

func NewAuthWebhookHandler(sessions domain.SessionProvider, secret string, logger logger.Logger) *AuthWebhookHandler {
	return &AuthWebhookHandler{
		sessions: sessions,
		secret:   secret,
		logger:   logger,
	}
}

func (h *AuthWebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhooks/auth", http.HandlerFunc(h.handleAuthEvent))
}

func (h *AuthWebhookHandler) handleAuthEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.secret == "" {
		WriteJSONError(w, "Auth webhooks are not configured", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to read webhook request body")
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := verifyWebhookSignature(h.secret, body, r.Header); err != nil {
		h.logger.WithField("webhook_id", r.Header.Get("webhook-id")).
			WithField("error", err.Error()).
			Warn("Rejected auth webhook")
		WriteJSONError(w, "Invalid webhook signature", http.StatusUnauthorized)
		return
	}

	event := parseAuthEvent(body)
	if err := event.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.WithField("event_type", string(event.Type)).
		WithField("user_id", event.UserID).
		Info("Received auth webhook")

	if err := h.sessions.HandleAuthEvent(r.Context(), event); err != nil {
		h.logger.WithField("event_type", string(event.Type)).
			WithField("user_id", event.UserID).
			WithField("error", err.Error()).
			Error("Failed to process auth webhook")
		WriteJSONError(w, "Failed to process webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func verifyWebhookSignature(secret string, payload []byte, header http.Header) error {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return fmt.Errorf("failed to create webhook verifier: %w", err)
	}

	if err := wh.Verify(payload, header); err != nil {
		return fmt.Errorf("signature validation failed: %w", err)
	}

	return nil
}

// parseAuthEvent reads the fields the service needs from the provider payload
func parseAuthEvent(body []byte) domain.AuthEvent {
	result := gjson.ParseBytes(body)
	return domain.AuthEvent{
		Type:         domain.AuthEventType(result.Get("type").String()),
		UserID:       result.Get("user.id").String(),
		Email:        result.Get("user.email").String(),
		BusinessName: result.Get("user.user_metadata.business_name").String(),
		DisplayName:  result.Get("user.user_metadata.display_name").String(),
	}
}
