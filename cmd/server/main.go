package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	cryptoshoproot "github.com/set-night/cryptoshop"
	"github.com/set-night/cryptoshop/internal/config"
	"github.com/set-night/cryptoshop/internal/cryptomus"
	"github.com/set-night/cryptoshop/internal/domain"
	"github.com/set-night/cryptoshop/internal/handler"
	"github.com/set-night/cryptoshop/internal/notify"
	"github.com/set-night/cryptoshop/internal/repository"
	"github.com/set-night/cryptoshop/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick the processor: real client or in-memory simulator. The choice
	// is made once here; everything downstream sees the same interface.
	var (
		api cryptomus.API
		sim *cryptomus.Simulator
	)
	if cfg.SimulationMode {
		slog.Info("simulation mode enabled, no real processor calls will be made")
		if cfg.CryptomusAPIKey == "" {
			cfg.CryptomusAPIKey = "simulation-api-key"
		}
		sim = cryptomus.NewSimulator(cfg)
		api = sim
	} else {
		client, err := cryptomus.NewClient(cfg)
		if err != nil {
			slog.Error("failed to configure payment client", "error", err)
			os.Exit(1)
		}
		api = client
	}

	// Invoice store: Postgres when configured, in-memory otherwise
	var store service.InvoiceStore
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(cryptoshoproot.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		store = repository.NewInvoiceRepo(pool)
	} else {
		slog.Info("no DATABASE_URL set, using in-memory invoice store")
		store = repository.NewMemoryInvoiceRepo()
	}

	// Optional Telegram payment notifications
	var notifier *notify.TelegramNotifier
	if cfg.NotifyBotToken != "" {
		b, err := bot.New(cfg.NotifyBotToken, bot.WithSkipGetMe())
		if err != nil {
			slog.Error("failed to create notification bot", "error", err)
			os.Exit(1)
		}
		notifier = notify.NewTelegramNotifier(b, cfg)
	}

	catalog := service.NewCatalog()
	payments := service.NewPaymentService(api, store, catalog, cfg)
	payments.EnableReconciliation(ctx, cryptomus.NewPoller(api, config.PollInterval))
	webhooks := service.NewWebhookProcessor(cfg.CryptomusAPIKey, store, service.WebhookHooks{
		OnSuccess: func(ctx context.Context, event *domain.WebhookEvent) error {
			notifier.PaymentSucceeded(event)
			return nil
		},
		OnFailed: func(ctx context.Context, event *domain.WebhookEvent) error {
			notifier.PaymentFailed(event)
			return nil
		},
		OnWrongAmount: func(ctx context.Context, event *domain.WebhookEvent) error {
			notifier.PaymentNeedsReview(event)
			return nil
		},
		OnFinal: func(ctx context.Context, event *domain.WebhookEvent) error {
			slog.Info("payment finalized", "uuid", event.UUID, "order_id", event.OrderID, "status", event.Status)
			return nil
		},
	})

	h := handler.New(handler.Deps{
		Payments: payments,
		Webhooks: webhooks,
		Catalog:  catalog,
		Sim:      sim,
		Cfg:      cfg,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: h.Router(),
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "simulation", cfg.SimulationMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	slog.Info("server stopped gracefully")
}
