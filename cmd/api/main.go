package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rescuesim/rescue-engine/internal/config"
	"github.com/rescuesim/rescue-engine/internal/events"
	"github.com/rescuesim/rescue-engine/internal/handlers"
	"github.com/rescuesim/rescue-engine/internal/loader"
	"github.com/rescuesim/rescue-engine/internal/logger"
	"github.com/rescuesim/rescue-engine/internal/middleware"
	"github.com/rescuesim/rescue-engine/internal/session"
	"github.com/rescuesim/rescue-engine/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Rescue Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"tick_interval", cfg.TickInterval)

	store, err := storage.NewRedisStore(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	blobs := storage.NewFileBlobStore(cfg.DataDir, log)
	broadcaster := events.NewBroadcaster(store.Client(), log)
	manager := session.NewManager(loader.New(store, log), broadcaster, cfg.TickInterval, log)

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	rescueHandler := handlers.NewRescueHandler(store, log)
	mux.Handle("/v1/rescues", rescueHandler)
	mux.Handle("/v1/rescues/", rescueHandler)

	libraryHandler := handlers.NewLibraryHandler(store, log)
	mux.Handle("/v1/library", libraryHandler)
	mux.Handle("/v1/library/", libraryHandler)

	storyHandler := handlers.NewStoryHandler(store, log)
	mux.Handle("/v1/stories", storyHandler)
	mux.Handle("/v1/stories/", storyHandler)

	mux.Handle("/v1/blobs/", handlers.NewBlobHandler(blobs, log))

	sessionHandler := handlers.NewSessionHandler(manager, log)
	eventsHandler := handlers.NewEventsHandler(manager, broadcaster, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/events") {
			eventsHandler.ServeHTTP(w, r)
			return
		}
		sessionHandler.ServeHTTP(w, r)
	}))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays unset so websocket event streams can outlive
		// any fixed response deadline.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Stop live sessions before their storage goes away
	manager.Close()

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
