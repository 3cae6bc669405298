package main

import (
	"advisorchat-backend/internal/api"
	"advisorchat-backend/internal/config"
	"advisorchat-backend/internal/handlers"
	"advisorchat-backend/internal/responder"
	"advisorchat-backend/internal/services"
	"advisorchat-backend/internal/store"
	"advisorchat-backend/internal/store/postgres"
	"advisorchat-backend/internal/store/sqlite"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// openStore picks the backend from the DATABASE_URL scheme.
func openStore(ctx context.Context, databaseURL string) (store.Store, error) {
	if path, ok := sqlite.PathFromURL(databaseURL); ok {
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		s, err := postgres.Open(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: unsupported DATABASE_URL scheme", config.ErrInvalidConfig)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log.Info().Str("app", cfg.AppName).Str("version", cfg.AppVersion).Str("environment", cfg.Environment).Msg("Starting advisorchat backend")

	// 1. Database
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	db, err := openStore(dbCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	defer db.Close()
	log.Info().Msg("Database connection established and schema migrated.")

	// 2. Services
	chatService := services.NewChatService(db)
	chartService := services.NewChartService()
	resp, err := responder.New(ctx, cfg, chatService, chartService)
	if err != nil {
		return fmt.Errorf("unable to create responder: %w", err)
	}
	log.Info().Str("provider", cfg.LLMProvider).Str("model", cfg.LLMModel).Msg("Responder initialized.")

	customerService := services.NewCustomerService(db)
	conversationService := services.NewConversationService(db, resp)

	// 3. Router
	router := api.NewRouter(api.RouterDependencies{
		SystemHandler:   handlers.NewSystemHandler(cfg, db),
		CustomerHandler: handlers.NewCustomerHandler(customerService),
		ChatHandler:     handlers.NewChatHandlers(chatService, conversationService),
		ChartHandler:    handlers.NewChartHandler(chartService),
		Config:          cfg,
		Logger:          log.Logger,
	})

	// 4. HTTP server; a turn may wait on the model for up to LLM_TIMEOUT.
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stopChan)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("could not listen on %s: %w", cfg.HTTPPort, err)
		}
		return nil
	case <-stopChan:
		log.Info().Msg("Shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server graceful shutdown failed: %w", err)
	}

	log.Info().Msg("Server shutdown complete.")
	return nil
}
