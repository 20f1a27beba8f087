package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocapsule/internal/api"
	"vocapsule/internal/auth"
	"vocapsule/internal/config"
	"vocapsule/internal/logger"
	"vocapsule/internal/repository"
	"vocapsule/internal/repository/file"
	"vocapsule/internal/repository/sqlite"
	"vocapsule/internal/services"
	"vocapsule/internal/wordbank"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Vocapsule Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("storage=%s", cfg.Storage)
	log.Debug("wordbank_path=%s", cfg.WordBankPath)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("static_dir=%s", cfg.StaticDir)

	// Open the chosen storage backend
	var store repository.Store
	switch cfg.Storage {
	case config.StorageFile:
		s, err := file.Open(cfg.DataDir)
		if err != nil {
			log.Error("failed to open file store: %v", err)
			os.Exit(1)
		}
		store = s
	default:
		s, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database: %v", err)
			os.Exit(1)
		}
		store = s
	}
	defer func() {
		log.Debug("closing store")
		store.Close()
	}()

	bank := wordbank.New(cfg.WordBankPath)
	if len(bank.Load()) == 0 {
		log.Warn("word bank at %s is empty or unreadable", cfg.WordBankPath)
	}

	// Initialize services
	authService := services.NewAuthService(store)
	vocabService := services.NewVocabService(store, bank, cfg.Location())
	quizService := services.NewQuizService(store)
	statsService := services.NewStatsService(store)

	srv := &api.Server{
		AuthService:  authService,
		VocabService: vocabService,
		QuizService:  quizService,
		StatsService: statsService,
		Tokens:       auth.NewTokenIssuer(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour),
		Google:       auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		CookieSecure: cfg.CookieSecure,
		StaticDir:    cfg.StaticDir,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Vocapsule Server Stopped")
	log.Info("===========================================")
}
