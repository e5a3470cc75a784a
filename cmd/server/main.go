package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biolink/internal/auth"
	"biolink/internal/config"
	"biolink/internal/contentfilter"
	"biolink/internal/db"
	"biolink/internal/router"
	"biolink/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	filter, err := contentfilter.Load(cfg.ContentFilterPath)
	if err != nil {
		logger.Error("load content filter", "path", cfg.ContentFilterPath, "error", err)
		os.Exit(1)
	}
	logger.Info("content filter loaded",
		"version", filter.Version(),
		"categories", len(filter.Categories()),
		"auto_hide_threshold", filter.AutoHideThreshold(),
	)

	gdb, err := db.Open(cfg)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Error("migrate database", "error", err)
		os.Exit(1)
	}

	notifications := services.NewNotificationService(gdb, logger)
	accounts := services.NewAccountService(gdb, logger)
	comments := services.NewCommentService(gdb, filter, notifications, logger)
	moderation := services.NewModerationService(gdb, filter, notifications, logger)

	if err := accounts.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("seed admin account", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenIssuer(cfg.SessionSecret, cfg.TokenTTL)
	validator, err := auth.NewValidator(gdb, tokens)
	if err != nil {
		logger.Error("create session validator", "error", err)
		os.Exit(1)
	}

	engine := router.New(router.Deps{
		DB:            gdb,
		Logger:        logger,
		Validator:     validator,
		Tokens:        tokens,
		Accounts:      accounts,
		Comments:      comments,
		Moderation:    moderation,
		Notifications: notifications,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.TokenTTL,
		SecureCookies: cfg.SecureCookies,
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	shutdown(logger, srv, gdb)
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.GinMode == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func shutdown(logger *slog.Logger, srv *http.Server, gdb *gorm.DB) {
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}
	logger.Info("shutdown complete")
}
