package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/deptboard/deptboard/internal/api"
	"github.com/deptboard/deptboard/internal/app"
	"github.com/deptboard/deptboard/internal/dashboard"
	"github.com/deptboard/deptboard/internal/landing"
	"github.com/deptboard/deptboard/internal/observability"
	"github.com/deptboard/deptboard/internal/platform/cache"
	"github.com/deptboard/deptboard/internal/public"
	"github.com/deptboard/deptboard/internal/shared"
	"github.com/deptboard/deptboard/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "deptboard_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	client := api.NewClient(cfg.BackendURL, logger,
		api.WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}),
		api.WithObserver(metrics),
	)

	landingHandler := landing.NewHandler(logger, client, templates, sessionManager, csrfManager)
	dashboardHandler := dashboard.NewHandler(logger, client, templates, sessionManager, csrfManager)
	publicHandler := public.NewHandler(logger, client, templates, csrfManager)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		LandingHandler:   landingHandler,
		DashboardHandler: dashboardHandler,
		PublicHandler:    publicHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
