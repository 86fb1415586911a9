package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authGate "github.com/cloodio/secchat/backend/internal/auth"
	authHandler "github.com/cloodio/secchat/backend/internal/handler/auth"
	sessionHandler "github.com/cloodio/secchat/backend/internal/handler/session"
	streamHandler "github.com/cloodio/secchat/backend/internal/handler/stream"
	wsHandler "github.com/cloodio/secchat/backend/internal/handler/ws"
	middlewarePkg "github.com/cloodio/secchat/backend/internal/middleware"
	sessionService "github.com/cloodio/secchat/backend/internal/service/session"
	"github.com/cloodio/secchat/backend/internal/service/turn"
	"github.com/cloodio/secchat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(gate *authGate.Gate, registry *sessionService.Registry, controller *turn.Controller) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	authH := authHandler.New(gate)
	sessionH := sessionHandler.New(registry)
	streamH := streamHandler.New(controller)
	wsH := wsHandler.New(controller)

	r.Route("/api", func(api chi.Router) {
		authH.RegisterRoutes(api)
		sessionH.RegisterRoutes(api)
		wsH.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamH.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
