package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nafisr/catatuang/internal/api/handlers"
	"github.com/nafisr/catatuang/internal/api/middleware"
	"github.com/nafisr/catatuang/internal/config"
	"github.com/nafisr/catatuang/internal/extractor"
	"github.com/nafisr/catatuang/internal/logger"
	"github.com/nafisr/catatuang/internal/recorder"
	"github.com/nafisr/catatuang/internal/store"
	fsstore "github.com/nafisr/catatuang/internal/store/firestore"
	"github.com/nafisr/catatuang/internal/store/memory"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty - all requests will be unauthenticated")
	}

	ctx := context.Background()

	// Pick the store backend. Firestore is the real one; memory exists for
	// credential-free local runs.
	var st *store.Store
	closeStore := func() error { return nil }
	switch cfg.Store {
	case config.StoreFirestore:
		st, closeStore, err = fsstore.New(ctx, cfg.FirestoreProject)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Firestore store")
		}
		log.Info().Str("project", cfg.FirestoreProject).Msg("Using Firestore store")
	case config.StoreMemory:
		st = memory.New()
		log.Warn().Msg("Using in-memory store - data is lost on restart")
	}
	defer closeStore()

	ext, err := extractor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create extractor")
	}

	rec := recorder.New(ext, st, log)

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(rec, log)
	transactionsHandler := handlers.NewTransactionsHandler(st.Transactions, log)
	referenceHandler := handlers.NewReferenceHandler(st.Categories, st.Accounts, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analyzeHandler.Analyze(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "invalid-argument", "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "invalid-argument", "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			referenceHandler.ListCategories(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "invalid-argument", "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			referenceHandler.ListAccounts(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "invalid-argument", "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(cfg.JWTSecret)(mux),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
