package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/vitrina-dev/vitrina/db"
	"github.com/vitrina-dev/vitrina/internal/auth"
	"github.com/vitrina-dev/vitrina/internal/config"
	"github.com/vitrina-dev/vitrina/internal/logger"
	"github.com/vitrina-dev/vitrina/internal/media"
	"github.com/vitrina-dev/vitrina/internal/router"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Setup(cfg.Server.LogLevel)

	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.ConnectDatabase(cfg.Database, logger.Gorm(cfg.Server.LogLevel))

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if err != nil {
		log.Fatalf("Failed to set up tokens: %v", err)
	}

	store, err := media.NewStore(cfg.Media.UploadDir, cfg.Media.URLPrefix, cfg.Media.Quality)

	if err != nil {
		log.Fatalf("Failed to set up media store: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router.NewRouter(cfg, database, tokens, store),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
