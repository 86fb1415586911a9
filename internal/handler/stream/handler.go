package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	sessionService "github.com/cloodio/secchat/backend/internal/service/session"
	"github.com/cloodio/secchat/backend/internal/service/turn"
	streampkg "github.com/cloodio/secchat/backend/internal/stream"
	"github.com/cloodio/secchat/backend/pkg/utils"
)

// Handler streams chat responses via Server-Sent Events.
type Handler struct {
	controller *turn.Controller
}

// New creates a new stream handler.
func New(controller *turn.Controller) *Handler {
	return &Handler{controller: controller}
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest drives one chat turn for sessionID, streaming
// displayable fragments to the client as they arrive.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	sink := streampkg.SinkFunc(func(text string) error {
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "delta",
			SessionID: sessionID,
			Content:   text,
		})
		return nil
	})

	response, err := h.controller.HandleMessage(ctx, sessionID, userMessage, sink)
	if errors.Is(err, turn.ErrSessionNotReady) {
		log.Printf("[stream] session=%s not ready: %v", sessionID, err)
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "notice",
			SessionID: sessionID,
			Content:   sessionService.NotReadyNotice,
			Finished:  true,
		})
		return nil
	}
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("AI generation failed: %v", err))
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s", sessionID)
	return nil
}

// sendSSE sends a Server-Sent Event.
func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

// sendSSEError sends an error via Server-Sent Events.
func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.sendSSE(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}
