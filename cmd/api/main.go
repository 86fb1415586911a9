package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloodio/secchat/backend/internal/auth"
	"github.com/cloodio/secchat/backend/internal/config"
	"github.com/cloodio/secchat/backend/internal/handler"
	"github.com/cloodio/secchat/backend/internal/service/ai"
	"github.com/cloodio/secchat/backend/internal/service/ai/plugins"
	"github.com/cloodio/secchat/backend/internal/service/session"
	"github.com/cloodio/secchat/backend/internal/service/turn"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.AI.Enabled() {
		log.Println("warning: Ark credentials not configured; chat start will fail until they are provided")
	}

	gate := auth.NewGate(cfg.Auth.Provider)
	aiService := ai.NewService(cfg.AI, plugins.NewRegistry(plugins.Builtin()...))

	// Each new session gets its own completion handle, built with the fixed
	// execution settings.
	registry := session.NewRegistry(session.FactoryFunc(func(ctx context.Context) (session.Completer, error) {
		return aiService.NewConn(ctx, ai.DefaultExecutionSettings())
	}))

	controller := turn.NewController(registry)

	router := handler.NewRouter(gate, registry, controller)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Cloodio chat backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
