package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/cloodio/secchat/backend/internal/model/chat"
	sessionService "github.com/cloodio/secchat/backend/internal/service/session"
)

type stubCompleter struct{}

func (stubCompleter) Streaming() bool { return true }

func (stubCompleter) Stream(context.Context, []chat.Message, string) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("ok", nil)}), nil
}

func (stubCompleter) Generate(context.Context, []chat.Message, string) (*schema.Message, error) {
	return schema.AssistantMessage("ok", nil), nil
}

func newTestRouter(registry *sessionService.Registry) http.Handler {
	r := chi.NewRouter()
	New(registry).RegisterRoutes(r)
	return r
}

func workingRegistry() *sessionService.Registry {
	return sessionService.NewRegistry(sessionService.FactoryFunc(func(context.Context) (sessionService.Completer, error) {
		return stubCompleter{}, nil
	}))
}

func TestCreateSessionAnonymous(t *testing.T) {
	router := newTestRouter(workingRegistry())

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload createResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if payload.Session.ID == "" {
		t.Fatal("expected a session id")
	}
	if payload.Session.Owner != nil {
		t.Fatalf("expected anonymous session, got owner %v", payload.Session.Owner)
	}
	if !strings.Contains(payload.Notice, "Sign in") {
		t.Fatalf("expected sign-in prompt, got %q", payload.Notice)
	}
}

func TestCreateSessionWithIdentity(t *testing.T) {
	router := newTestRouter(workingRegistry())

	body := `{"identity": {"identifier": "alice@cloodio.com", "displayName": "Alice", "provider": "azure-ad"}}`
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload createResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !strings.Contains(payload.Notice, "Hello, Alice!") {
		t.Fatalf("expected personalized notice, got %q", payload.Notice)
	}
}

func TestCreateSessionInitFailure(t *testing.T) {
	registry := sessionService.NewRegistry(sessionService.FactoryFunc(func(context.Context) (sessionService.Completer, error) {
		return nil, errors.New("missing credentials")
	}))
	router := newTestRouter(registry)

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if payload["notice"] != sessionService.InitFailureNotice {
		t.Fatalf("unexpected notice: %q", payload["notice"])
	}
}

func TestTranscriptUnknownSession(t *testing.T) {
	router := newTestRouter(workingRegistry())

	req := httptest.NewRequest(http.MethodGet, "/session/missing/transcript", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDestroySession(t *testing.T) {
	registry := workingRegistry()
	router := newTestRouter(registry)

	created, err := registry.Create(context.Background(), nil)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/session/"+created.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if _, err := registry.Get(created.ID); !errors.Is(err, sessionService.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}
