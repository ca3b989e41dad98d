package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/api"
	"github.com/notifyhub/telegram-sender/internal/config"
	"github.com/notifyhub/telegram-sender/internal/db"
	"github.com/notifyhub/telegram-sender/internal/i18n"
	"github.com/notifyhub/telegram-sender/internal/logging"
	"github.com/notifyhub/telegram-sender/internal/metrics"
	"github.com/notifyhub/telegram-sender/internal/provider"
	"github.com/notifyhub/telegram-sender/internal/repository"
	"github.com/notifyhub/telegram-sender/internal/service"
)

func main() {
	// Local overrides first; neither file is required.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	tr, err := i18n.New(i18n.LocalesFS, cfg.Locale)
	if err != nil {
		logger.Fatal("failed to load locale", zap.String("locale", cfg.Locale), zap.Error(err))
	}

	// ---- audit store ----
	ctx := context.Background()
	var (
		repo         repository.DispatchLogRepository
		auditBackend = "memory"
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := db.Migrate(cfg.DatabaseURL, "migrations"); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("database migrations applied")

		repo = repository.NewPgDispatchLogRepository(pool)
		auditBackend = "postgres"
	} else {
		logger.Warn("DATABASE_URL not set, dispatch audit log is in-memory",
			zap.Int("capacity", cfg.AuditMemoryCapacity))
		repo = repository.NewMemoryDispatchLogRepository(cfg.AuditMemoryCapacity)
	}

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	dispatcher := provider.NewTelegramDispatcher(provider.TelegramConfig{
		Token:       cfg.BotToken,
		BaseURL:     cfg.TelegramBaseURL,
		Timeout:     cfg.TelegramTimeout,
		Development: cfg.IsDevelopment(),
	}, tr, logger)
	if !dispatcher.CredentialConfigured() {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set, every dispatch will return a configuration error")
	} else {
		logger.Info("telegram credential loaded", zap.String("bot_id", logging.BotID(cfg.BotToken)))
	}

	onDispatched, onAuditFailed := m.ServiceHooks()
	svc := service.NewDispatchService(dispatcher, repo, service.Hooks{
		OnDispatched:  onDispatched,
		OnAuditFailed: onAuditFailed,
	}, tr, logger)

	// ---- HTTP server ----
	router := api.NewRouter(api.RouterDeps{
		Service:              svc,
		Gatherer:             reg,
		AllowedOrigins:       cfg.AllowedOrigins(),
		CredentialConfigured: dispatcher.CredentialConfigured(),
		AuditBackend:         auditBackend,
		Logger:               logger,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("locale", tr.Lang()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// In-flight dispatches finish; new requests are refused.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
