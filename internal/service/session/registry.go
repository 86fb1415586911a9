package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/cloodio/secchat/backend/internal/model/chat"
	"github.com/cloodio/secchat/backend/internal/model/identity"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrCompleterMissing  = errors.New("session has no completion handle")
	ErrTranscriptMissing = errors.New("session has no transcript")
)

// Completer is one session's handle onto the completion backend.
type Completer interface {
	Streaming() bool
	Stream(ctx context.Context, history []chat.Message, userInput string) (*schema.StreamReader[*schema.Message], error)
	Generate(ctx context.Context, history []chat.Message, userInput string) (*schema.Message, error)
}

// Factory builds a fresh Completer for each new session.
type Factory interface {
	NewCompleter(ctx context.Context) (Completer, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context) (Completer, error)

// NewCompleter calls f.
func (f FactoryFunc) NewCompleter(ctx context.Context) (Completer, error) {
	return f(ctx)
}

type entry struct {
	session    chat.Session
	completer  Completer
	transcript *chat.Transcript
}

// Registry is the process-wide session store: session id to completion
// handle, transcript and owner. Entries live from chat start until Destroy
// and are never persisted.
type Registry struct {
	factory Factory

	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry bootstraps an empty registry over the given completer factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		entries: make(map[string]entry),
	}
}

// Create provisions a new session with a fresh completion handle and an
// empty transcript. It succeeds for signed-in and anonymous users alike;
// owner may be nil. On failure nothing is stored and the error is returned
// for the caller to surface.
func (r *Registry) Create(ctx context.Context, owner *identity.User) (chat.Session, error) {
	completer, err := r.factory.NewCompleter(ctx)
	if err != nil {
		return chat.Session{}, fmt.Errorf("failed to initialize completion handle: %w", err)
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.entries[session.ID] = entry{
		session:    session,
		completer:  completer,
		transcript: chat.NewTranscript(),
	}
	r.mu.Unlock()

	return session, nil
}

// Get retrieves a session record by identifier.
func (r *Registry) Get(sessionID string) (chat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return e.session, nil
}

// Ready returns the session's completion handle and transcript, checking
// each field individually so the not-ready cause is diagnosable.
func (r *Registry) Ready(sessionID string) (Completer, *chat.Transcript, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	if e.completer == nil {
		return nil, nil, ErrCompleterMissing
	}
	if e.transcript == nil {
		return nil, nil, ErrTranscriptMissing
	}
	return e.completer, e.transcript, nil
}

// Transcript copies out the session's message log.
func (r *Registry) Transcript(sessionID string) ([]chat.Message, error) {
	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.transcript.Snapshot(), nil
}

// Destroy drops the session. Destroying an unknown session is a no-op.
func (r *Registry) Destroy(sessionID string) {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()
}
