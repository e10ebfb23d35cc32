package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snoozelane/formsd/internal/airtable"
	"github.com/snoozelane/formsd/internal/api"
	"github.com/snoozelane/formsd/internal/config"
	"github.com/snoozelane/formsd/internal/forms"
	"github.com/snoozelane/formsd/internal/metrics"
	"github.com/snoozelane/formsd/internal/resend"
)

// App is the main application
type App struct {
	config        *config.Config
	apiServer     *api.Server
	metricsServer *metrics.Server
	logger        *slog.Logger
}

// New creates a new application
func New(cfg *config.Config, version string) (*App, error) {
	logger := setupLogger(cfg.Logging)

	// Metrics are optional; when enabled they get their own listener
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		m := metrics.New()
		metrics.SetGlobal(m)
		metricsServer = metrics.NewServer(m, cfg.Metrics.ListenAddr, cfg.Metrics.Path,
			cfg.Metrics.AllowedIPs, logger.With("component", "metrics"))
	}

	store := airtable.NewClient(cfg.Airtable.BaseURL, cfg.Airtable.AccessToken,
		cfg.Airtable.BaseID, cfg.Airtable.Timeout)
	if !store.Configured() {
		logger.Warn("record store credentials missing, form submissions will fail until configured")
	}

	mailer := resend.NewClient(cfg.Resend.BaseURL, cfg.Resend.APIKey, cfg.Resend.Timeout)
	if !mailer.Enabled() {
		logger.Info("email sending disabled, no RESEND_API_KEY configured")
	}

	waitlist := forms.NewWaitlist(store, mailer, forms.WaitlistOptions{
		Table:         cfg.Airtable.SignupsTable,
		PremiumLimit:  cfg.Waitlist.PremiumLimit,
		CouponPrefix:  cfg.Waitlist.CouponPrefix,
		CountPageSize: cfg.Waitlist.CountPageSize,
		SiteURL:       cfg.Waitlist.SiteURL,
		From:          cfg.Resend.WaitlistFrom,
	}, logger.With("component", "waitlist"))

	contact := forms.NewContact(store, mailer, forms.ContactOptions{
		Table:   cfg.Airtable.InquiriesTable,
		From:    cfg.Resend.ContactFrom,
		AdminTo: cfg.Resend.AdminTo,
	}, logger.With("component", "contact"))

	apiServer := api.NewServer(waitlist, contact, &cfg.API, version,
		logger.With("component", "api"))

	return &App{
		config:        cfg,
		apiServer:     apiServer,
		metricsServer: metricsServer,
		logger:        logger,
	}, nil
}

// Run starts all components and waits for shutdown
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting formsd",
		"hostname", a.config.Server.Hostname,
		"api_addr", a.config.API.ListenAddr,
		"email_enabled", a.config.EmailEnabled(),
	)

	// Create context that listens for signals
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 2)

	go func() {
		if err := a.apiServer.ListenAndServe(); err != nil {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.logger.Error("server error", "error", err)
		cancel()
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("api server shutdown error", "error", err)
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

// setupLogger creates a logger based on configuration
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
