// Command server exposes receipt printing over HTTP for the booking backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hidenkeys/receipt/internal/bootstrap"
	"github.com/hidenkeys/receipt/internal/infrastructure/config"
	"github.com/hidenkeys/receipt/internal/infrastructure/logger"
	"github.com/hidenkeys/receipt/internal/interfaces/http/handler"
	"github.com/hidenkeys/receipt/internal/interfaces/http/middleware"
	"github.com/hidenkeys/receipt/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ./config.toml or /etc/receipt/config.toml)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := bootstrap.NewLogger(cfg.Log, logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	tel, log, err := bootstrap.StartTelemetry(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting receipt server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.HTTP.Port),
	)

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize print service", zap.Error(err))
	}
	log.Info("Print service ready",
		zap.String("driver", app.Driver.Name()),
		zap.String("default_printer", cfg.Printer.DefaultName),
		zap.String("logo_url", app.LogoURL),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Server span per request
	// 4. Logger - Log requests
	// 5. SpanEnricher - Request ID and error status on the span
	// 6. BodyLimit - Limit request body size
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tel.Enabled(),
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	healthHandler := handler.NewHealthHandler(app.Driver.Name())
	engine.GET("/health", healthHandler.Health)

	router.NewRouter(engine).
		Register(handler.NewReceiptHandler(app.Service)).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
