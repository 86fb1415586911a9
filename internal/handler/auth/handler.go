package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	authService "github.com/cloodio/secchat/backend/internal/auth"
	"github.com/cloodio/secchat/backend/pkg/utils"
)

// Handler exposes the sign-in callback over HTTP.
type Handler struct {
	gate *authService.Gate
}

// New creates the auth handler.
func New(gate *authService.Gate) *Handler {
	return &Handler{gate: gate}
}

// RegisterRoutes wires the auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/callback", h.handleCallback)
}

// handleCallback maps a completed provider sign-in to an internal identity.
// The UI layer posts the claims it received; token verification happened
// upstream at the provider boundary.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProviderID  string            `json:"providerId"`
		AccessToken string            `json:"accessToken"`
		IDToken     string            `json:"idToken"`
		Claims      map[string]string `json:"claims"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.gate.Authenticate(payload.ProviderID, payload.AccessToken, payload.Claims, payload.IDToken)
	if err != nil {
		log.Printf("[auth] sign-in rejected for provider=%s: %v", payload.ProviderID, err)
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}
