package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloodio/secchat/backend/internal/model/chat"
	"github.com/cloodio/secchat/backend/internal/model/identity"
	sessionService "github.com/cloodio/secchat/backend/internal/service/session"
	"github.com/cloodio/secchat/backend/pkg/utils"
)

// Handler exposes the session lifecycle over HTTP.
type Handler struct {
	registry *sessionService.Registry
}

// New creates the session handler.
func New(registry *sessionService.Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes wires the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
	r.Delete("/session/{sessionID}", h.handleDestroySession)
}

type createResponse struct {
	Session chat.Session `json:"session"`
	Notice  string       `json:"notice"`
}

// handleCreateSession is the chat-start event. A session is provisioned
// whether or not the caller is signed in; only the notice differs.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Identity *identity.User `json:"identity"`
	}

	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	owner := payload.Identity
	if owner != nil && owner.Identifier == "" {
		owner = nil
	}

	session, err := h.registry.Create(r.Context(), owner)
	if err != nil {
		log.Printf("[session] chat start failed: %v", err)
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"notice": sessionService.InitFailureNotice,
		})
		return
	}

	utils.RespondJSON(w, http.StatusCreated, createResponse{
		Session: session,
		Notice:  sessionService.WelcomeNotice(owner),
	})
}

// handleTranscript returns the stored messages for a session.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.registry.Transcript(sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Message{"messages": messages})
}

// handleDestroySession is the end-of-context lifecycle hook.
func (h *Handler) handleDestroySession(w http.ResponseWriter, r *http.Request) {
	h.registry.Destroy(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}
