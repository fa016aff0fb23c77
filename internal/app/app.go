// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gangsheet-builders/order-actions/internal/action"
	"github.com/gangsheet-builders/order-actions/internal/buildinfo"
	"github.com/gangsheet-builders/order-actions/internal/catalog"
	"github.com/gangsheet-builders/order-actions/internal/config"
	"github.com/gangsheet-builders/order-actions/internal/form"
	"github.com/gangsheet-builders/order-actions/internal/logger"
	"github.com/gangsheet-builders/order-actions/internal/metrics"
	"github.com/gangsheet-builders/order-actions/internal/order"
	"github.com/gangsheet-builders/order-actions/internal/quote"
	"github.com/gangsheet-builders/order-actions/internal/ratelimit"
	"github.com/gangsheet-builders/order-actions/internal/sentry"
	"github.com/gangsheet-builders/order-actions/internal/webhook"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	catalog        *catalog.Catalog
	actions        *action.Registry
	submitter      *order.Submitter
	senderLimiter  *ratelimit.KeyedLimiter
	webhookHandler *webhook.Handler
	router         *gin.Engine
	server         *http.Server
	draining       atomic.Bool    // set once shutdown starts; /readyz reports 503
	wg             sync.WaitGroup // background goroutines
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		Format:              cfg.LogFormat,
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", cfg.ServerName)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog.*Context() calls pick up sender_id/action/request_id
	// through the ContextHandler.
	slog.SetDefault(log.Logger)

	log.WithField("release", buildinfo.Release()).Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error reporting enabled")
	}

	app, err := build(cfg, log, nil)
	if err != nil {
		return nil, err
	}
	log.WithField("products", len(app.catalog.Entries())).Info("Initialization complete")
	return app, nil
}

// build wires every component. A nil creator means the HTTP order client
// built from cfg.
func build(cfg *config.Config, log *logger.Logger, creator order.Creator) (*Application, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	c, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	if cfg.CatalogFile != "" {
		log.WithField("path", cfg.CatalogFile).Info("Catalog loaded from file")
	}

	if creator == nil {
		creator = order.NewClient(order.ClientConfig{
			Endpoint: cfg.OrderEndpointURL,
			Token:    cfg.OrderAPIToken,
			Timeout:  cfg.OrderTimeout,
		})
	}
	submitter := order.NewSubmitter(order.SubmitterConfig{
		Creator:        creator,
		UploadBaseURL:  cfg.UploadBaseURL,
		DedupWindow:    cfg.DedupWindow,
		DedupCacheSize: cfg.DedupCacheSize,
		Metrics:        m,
		Logger:         log,
	})

	actions := action.NewRegistry(action.Standard(action.Deps{
		Form:      form.New(c),
		Quotes:    quote.NewEngine(c),
		Submitter: submitter,
		Metrics:   m,
	})...)

	senderLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "sender",
		Burst:         cfg.SenderRateBurst,
		RefillRate:    cfg.SenderRateRefill,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Metrics:       m,
	})

	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		Registry:      actions,
		Metrics:       m,
		Logger:        log,
		SenderLimiter: senderLimiter,
		ActionTimeout: cfg.ActionTimeout,
		Token:         cfg.ActionToken,
	})

	app := &Application{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		registry:       registry,
		catalog:        c,
		actions:        actions,
		submitter:      submitter,
		senderLimiter:  senderLimiter,
		webhookHandler: webhookHandler,
	}
	app.router = app.routes()

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.ActionHTTPRead,
		ReadTimeout:       config.ActionHTTPRead,
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       config.ActionHTTPIdle,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}
	return app, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return c, nil
}

func (a *Application) routes() *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.POST("/webhook", a.webhookHandler.Handle)
	router.GET("/actions", a.webhookHandler.ListActions)
	router.GET("/metrics",
		basicAuth("metrics", a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	return router
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	if a.draining.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "shutting down",
		})
		return
	}

	if len(a.catalog.Entries()) == 0 {
		a.logger.Warn("Readiness check failed: catalog is empty")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog empty",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"release": buildinfo.Release(),
		"actions": a.actions.Names(),
		"state": gin.H{
			"catalog_products":    len(a.catalog.Entries()),
			"order_dedup_entries": a.submitter.Remembered(),
			"active_senders":      a.senderLimiter.ActiveCount(),
		},
		"features": a.getFeatures(),
	})
}

func (a *Application) getFeatures() map[string]bool {
	return map[string]bool{
		"action_token":   a.cfg.ActionToken != "",
		"metrics_auth":   a.cfg.MetricsAuthEnabled(),
		"order_replay":   a.cfg.DedupWindow > 0,
		"sentry":         sentry.IsEnabled(),
		"remote_logging": a.cfg.BetterStackToken != "",
	}
}

// Run starts the HTTP server and background jobs, then blocks until
// SIGINT/SIGTERM or a server failure.
//
// Shutdown order:
//  1. Mark not ready so the load balancer stops routing new calls
//  2. Cancel background jobs and wait for them
//  3. Drain in-flight action calls (HTTP server shutdown)
//  4. Release the rate limiter, flush Sentry, drain the log queue
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.startBackgroundJobs(ctx)
	serverErr := a.startHTTPServer()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErr:
		a.logger.WithError(err).Error("HTTP server error")
		runErr = fmt.Errorf("http server: %w", err)
	}

	a.draining.Store(true)
	cancel()

	a.logger.Info("Waiting for background jobs to finish...")
	start := time.Now()
	a.wg.Wait()
	a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("All background jobs completed")

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// startBackgroundJobs starts all background goroutines tracked by WaitGroup.
func (a *Application) startBackgroundJobs(ctx context.Context) {
	a.wg.Go(func() {
		a.updateGaugeMetrics(ctx)
	})
}

// startHTTPServer starts the HTTP server in a goroutine. The returned
// channel receives the error if the server stops on its own.
func (a *Application) startHTTPServer() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var shutdownErr error

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		shutdownErr = fmt.Errorf("http server shutdown: %w", err)
	}

	a.logger.Info("Closing resources...")
	a.senderLimiter.Stop()

	if sentry.IsEnabled() && !sentry.Flush(config.SentryFlush) {
		a.logger.Warn("Sentry flush timed out")
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		// The remote sink is gone; stdout still works.
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}
	return shutdownErr
}

// updateGaugeMetrics periodically samples sizes that change without an
// event of their own (expired replay entries).
func (a *Application) updateGaugeMetrics(ctx context.Context) {
	a.logger.Debug("Gauge metrics job started")
	defer a.logger.Debug("Gauge metrics job stopped")

	ticker := time.NewTicker(config.MetricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.recordGaugeMetrics()
		}
	}
}

func (a *Application) recordGaugeMetrics() {
	a.metrics.SetOrderDedupEntries(a.submitter.Remembered())
	a.metrics.SetRateLimiterSenders(a.senderLimiter.ActiveCount())
}
