package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/risk-radar/internal/api/handlers"
	"github.com/dvloznov/risk-radar/internal/api/middleware"
	"github.com/dvloznov/risk-radar/internal/config"
	"github.com/dvloznov/risk-radar/internal/insights"
	"github.com/dvloznov/risk-radar/internal/logger"
	"github.com/dvloznov/risk-radar/internal/pipeline"
	"github.com/dvloznov/risk-radar/internal/statestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set - every analysis will fall back to the offline insight")
	}

	// Initialize the state store
	var store *statestore.Store
	switch cfg.StateBackend {
	case config.BackendSQLite:
		store, err = statestore.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open sqlite state store")
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Using sqlite state store")
	default:
		store = statestore.NewMemoryStore()
		log.Info().Msg("Using in-memory state store")
	}
	defer store.Close()

	// Initialize the analysis engine
	classifier := insights.NewGeminiClassifier(cfg.GeminiModel)
	orchestrator := insights.NewOrchestrator(classifier, log)
	engine := pipeline.NewEngine(store, orchestrator, log)

	// Initialize handlers
	statementsHandler := handlers.NewStatementsHandler(engine, log)
	transactionsHandler := handlers.NewTransactionsHandler(store, log)
	budgetHandler := handlers.NewBudgetHandler(store, log)
	profileHandler := handlers.NewProfileHandler(engine, log)
	sessionHandler := handlers.NewSessionHandler(store, log)
	themeHandler := handlers.NewThemeHandler(store, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/statements", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.AnalyzeStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/budget", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			budgetHandler.GetBudget(w, r)
		case http.MethodPut:
			budgetHandler.UpdateBudget(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			profileHandler.GetProfile(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			sessionHandler.CreateSession(w, r)
		case http.MethodDelete:
			sessionHandler.DeleteSession(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/theme", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			themeHandler.GetTheme(w, r)
		case http.MethodPut:
			themeHandler.UpdateTheme(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
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
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
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

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
