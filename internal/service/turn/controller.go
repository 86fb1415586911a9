// Package turn orchestrates one request/response cycle of a chat session:
// readiness check, user-turn append, backend invocation, stream assembly
// and assistant-turn commit.
package turn

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cloodio/secchat/backend/internal/model/chat"
	"github.com/cloodio/secchat/backend/internal/service/session"
	"github.com/cloodio/secchat/backend/internal/stream"
)

// ErrSessionNotReady signals that the message arrived before the session was
// successfully initialized. No backend call was made; the user can recover
// by restarting the chat.
var ErrSessionNotReady = errors.New("session not ready")

// Controller drives chat turns against the session registry.
type Controller struct {
	registry *session.Registry
}

// NewController returns a controller over the given registry.
func NewController(registry *session.Registry) *Controller {
	return &Controller{registry: registry}
}

// HandleMessage processes one inbound user message for sessionID. Displayable
// response fragments are forwarded to sink as they arrive from the backend;
// on success the committed assistant message is returned. A mid-stream
// failure is returned as-is: fragments already sent stay visible and no
// assistant entry is appended.
func (c *Controller) HandleMessage(ctx context.Context, sessionID, userText string, sink stream.Sink) (chat.Message, error) {
	completer, transcript, err := c.registry.Ready(sessionID)
	if err != nil {
		return chat.Message{}, fmt.Errorf("%w: %v", ErrSessionNotReady, err)
	}

	transcript.Append(chat.Message{
		Role:      chat.RoleUser,
		Content:   userText,
		CreatedAt: time.Now().UTC(),
	})

	var full string
	if completer.Streaming() {
		src, err := completer.Stream(ctx, transcript.Snapshot(), userText)
		if err != nil {
			return chat.Message{}, err
		}

		full, err = stream.Assemble(src, sink)
		if err != nil {
			return chat.Message{}, err
		}
	} else {
		response, err := completer.Generate(ctx, transcript.Snapshot(), userText)
		if err != nil {
			return chat.Message{}, err
		}
		full = response.Content
		if full != "" {
			if err := sink.Fragment(full); err != nil {
				return chat.Message{}, err
			}
		}
	}

	assistant := chat.Message{
		Role:      chat.RoleAssistant,
		Content:   full,
		CreatedAt: time.Now().UTC(),
	}
	transcript.Append(assistant)

	log.Printf("[turn] completed response for session=%s, length=%d", sessionID, len(full))
	return assistant, nil
}
