package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessionService "github.com/cloodio/secchat/backend/internal/service/session"
	"github.com/cloodio/secchat/backend/internal/service/turn"
	streampkg "github.com/cloodio/secchat/backend/internal/stream"
)

// Handler serves the duplex chat transport. Each connection is bound to one
// session; inbound message frames run the same turn cycle as the SSE
// endpoint, with fragments written back as delta frames.
type Handler struct {
	controller *turn.Controller
	upgrader   websocket.Upgrader
}

// New creates the websocket handler.
func New(controller *turn.Controller) *Handler {
	return &Handler{
		controller: controller,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes wires the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outboundFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		if frame.Type != "message" || frame.Text == "" {
			h.write(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: "expected a message frame with text"})
			continue
		}

		if !h.runTurn(r.Context(), conn, sessionID, frame.Text) {
			return
		}
	}
}

// runTurn drives one chat turn over the connection. It reports whether the
// connection is still usable.
func (h *Handler) runTurn(ctx context.Context, conn *websocket.Conn, sessionID, text string) bool {
	sink := streampkg.SinkFunc(func(fragment string) error {
		return h.write(conn, outboundFrame{
			Type:      "delta",
			SessionID: sessionID,
			Content:   fragment,
		})
	})

	response, err := h.controller.HandleMessage(ctx, sessionID, text, sink)
	if errors.Is(err, turn.ErrSessionNotReady) {
		h.write(conn, outboundFrame{
			Type:      "notice",
			SessionID: sessionID,
			Content:   sessionService.NotReadyNotice,
		})
		return true
	}
	if err != nil {
		log.Printf("[ws] turn failed for session=%s: %v", sessionID, err)
		h.write(conn, outboundFrame{Type: "error", SessionID: sessionID, Error: err.Error()})
		return false
	}

	return h.write(conn, outboundFrame{
		Type:      "message",
		SessionID: sessionID,
		Content:   response.Content,
	}) == nil
}

func (h *Handler) write(conn *websocket.Conn, frame outboundFrame) error {
	frame.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("[ws] failed to marshal frame: %v", err)
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
