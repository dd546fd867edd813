package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"github.com/ficrammanifur/portfolio-backend/internal/config"
	"github.com/ficrammanifur/portfolio-backend/internal/handler"
	"github.com/ficrammanifur/portfolio-backend/internal/logging"
	"github.com/ficrammanifur/portfolio-backend/internal/repository"
	"github.com/ficrammanifur/portfolio-backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	repo, closeStore, err := openRepository(cfg)
	if err != nil {
		logging.Fatal("open message store failed", "backend", cfg.StoreBackend, "error", err)
	}
	defer closeStore()

	// Create the empty store up front so the first request never races the
	// first write.
	if err := repo.Init(context.Background()); err != nil {
		logging.Fatal("init message store failed", "error", err)
	}

	messageService := service.NewMessageService(repo)

	h := handler.New(repo, cfg.AllowedOrigins)
	messageHandler := handler.NewMessageHandler(messageService, cfg.CleanupLimit)
	rateLimiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)
	defer rateLimiter.Stop()
	limited := func(hf http.HandlerFunc) http.Handler {
		return rateLimiter.Middleware(hf)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /test-cors", h.TestCORS)
	mux.HandleFunc("GET /api/messages", messageHandler.List)
	mux.Handle("POST /api/messages", limited(messageHandler.Submit))
	mux.Handle("DELETE /api/messages/{id}", limited(messageHandler.Delete))
	mux.Handle("POST /api/messages/cleanup", limited(messageHandler.Cleanup))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.RequestLogger(h.CORS(handler.SecurityHeaders(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "backend", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openRepository builds the repository selected by STORE_BACKEND and returns
// it with its close function.
func openRepository(cfg config.Config) (repository.MessageRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendBadger:
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerPath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, nil, err
		}
		return repository.NewBadgerMessageRepository(db, cfg.MaxMessages), func() { _ = db.Close() }, nil
	case config.BackendPostgres:
		pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPgMessageRepository(pool, cfg.MaxMessages), pool.Close, nil
	default:
		return repository.NewFileMessageRepository(cfg.MessagesFile, cfg.MaxMessages), func() {}, nil
	}
}
