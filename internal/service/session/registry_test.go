package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/cloodio/secchat/backend/internal/model/chat"
	"github.com/cloodio/secchat/backend/internal/model/identity"
)

type stubCompleter struct{}

func (stubCompleter) Streaming() bool { return true }

func (stubCompleter) Stream(context.Context, []chat.Message, string) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("ok", nil)}), nil
}

func (stubCompleter) Generate(context.Context, []chat.Message, string) (*schema.Message, error) {
	return schema.AssistantMessage("ok", nil), nil
}

func stubFactory() Factory {
	return FactoryFunc(func(context.Context) (Completer, error) {
		return stubCompleter{}, nil
	})
}

func TestCreateWithoutIdentity(t *testing.T) {
	registry := NewRegistry(stubFactory())

	session, err := registry.Create(context.Background(), nil)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected a session id")
	}
	if session.Owner != nil {
		t.Fatalf("expected anonymous session, got owner %v", session.Owner)
	}

	completer, transcript, err := registry.Ready(session.ID)
	if err != nil {
		t.Fatalf("Ready err: %v", err)
	}
	if completer == nil {
		t.Fatal("expected a completion handle")
	}
	if transcript.Len() != 0 {
		t.Fatalf("expected empty transcript, got %d messages", transcript.Len())
	}
}

func TestCreateWithIdentity(t *testing.T) {
	registry := NewRegistry(stubFactory())
	owner := &identity.User{Identifier: "alice@cloodio.com", DisplayName: "Alice", Provider: "azure-ad"}

	session, err := registry.Create(context.Background(), owner)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if session.Owner == nil || session.Owner.Identifier != "alice@cloodio.com" {
		t.Fatalf("unexpected owner: %v", session.Owner)
	}
}

func TestCreateFactoryFailureStoresNothing(t *testing.T) {
	factoryErr := errors.New("missing credentials")
	registry := NewRegistry(FactoryFunc(func(context.Context) (Completer, error) {
		return nil, factoryErr
	}))

	if _, err := registry.Create(context.Background(), nil); !errors.Is(err, factoryErr) {
		t.Fatalf("expected factory error, got %v", err)
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if len(registry.entries) != 0 {
		t.Fatalf("expected no stored entries after failed create, got %d", len(registry.entries))
	}
}

func TestReadyUnknownSession(t *testing.T) {
	registry := NewRegistry(stubFactory())

	if _, _, err := registry.Ready("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDestroyRemovesSession(t *testing.T) {
	registry := NewRegistry(stubFactory())

	session, err := registry.Create(context.Background(), nil)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	registry.Destroy(session.ID)

	if _, err := registry.Get(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after destroy, got %v", err)
	}

	// Destroying again is a no-op.
	registry.Destroy(session.ID)
}

func TestWelcomeNotice(t *testing.T) {
	if notice := WelcomeNotice(nil); !strings.Contains(notice, "Sign in") {
		t.Fatalf("expected sign-in prompt for anonymous users, got %q", notice)
	}

	owner := &identity.User{Identifier: "alice@cloodio.com", DisplayName: "Alice"}
	if notice := WelcomeNotice(owner); !strings.Contains(notice, "Hello, Alice!") {
		t.Fatalf("expected personalized greeting, got %q", notice)
	}
}
