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

	"github.com/anonto42/social-network/internal/app"
	"github.com/anonto42/social-network/internal/logger"
	"github.com/anonto42/social-network/internal/router"
	"github.com/anonto42/social-network/pkg/config"
	"github.com/anonto42/social-network/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg, zl)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	a, err := app.Open(ctx, cfg, db, zl)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			zl.Warn("closing recorders", zap.Error(err))
		}
	}()

	auth := router.AuthConfig{JWTSecret: cfg.JWTSecret, JWTTTL: cfg.JWTTTL, AdminEmails: cfg.AdminEmails}
	if len(cfg.AdminEmails) == 0 {
		zl.Warn("ADMIN_EMAILS is empty, admin routes will refuse every user")
	}
	if cfg.FirebaseCredentialsPath != "" {
		fb, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, zl)
		if err != nil {
			return err
		}
		auth.Verifier = fb.AuthClient
	}

	e := echo.New()
	e.HideBanner = true
	config.SetupMiddleware(e, zl)
	router.SetupRoutes(e, a, auth, zl)

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zl.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
