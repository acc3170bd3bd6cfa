// Package bootstrap assembles the print service from configuration. Both the
// CLI and the HTTP server build their service here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	receiptapp "github.com/hidenkeys/receipt/internal/application/receipt"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/hidenkeys/receipt/internal/infrastructure/config"
	"github.com/hidenkeys/receipt/internal/infrastructure/logger"
	"github.com/hidenkeys/receipt/internal/infrastructure/logo"
	"github.com/hidenkeys/receipt/internal/infrastructure/printing"
	"github.com/hidenkeys/receipt/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// App is a ready-to-use print service with the driver it prints through
type App struct {
	Service *receiptapp.PrintService
	Driver  printing.Driver
	LogoURL string
}

// NewLogger builds the logger described by the log section. Fields the
// section leaves empty come from base, the command's preset.
func NewLogger(cfg config.LogConfig, base *logger.Config) (*zap.Logger, error) {
	if base == nil {
		base = logger.DefaultConfig()
	}
	lc := *base
	if cfg.Level != "" {
		lc.Level = cfg.Level
	}
	if cfg.Format != "" {
		lc.Format = cfg.Format
	}
	if cfg.Output != "" {
		lc.Output = cfg.Output
	}
	return logger.New(&lc)
}

// Telemetry owns the trace and log exporters for the life of a command
type Telemetry struct {
	tracer *telemetry.TracerProvider
	logs   *telemetry.LoggerProvider
}

// StartTelemetry installs the global tracer provider and returns log with
// its records bridged to the collector when log export is on. A disabled
// section yields no-op providers and the logger unchanged.
func StartTelemetry(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*Telemetry, *zap.Logger, error) {
	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		SamplingRatio:     cfg.SamplingRatio,
		ServiceName:       cfg.ServiceName,
		Insecure:          cfg.Insecure,
	}, log)
	if err != nil {
		return nil, log, fmt.Errorf("failed to start tracing: %w", err)
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Enabled && cfg.LogsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ServiceName:       cfg.ServiceName,
		Insecure:          cfg.Insecure,
	}, log)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		return nil, log, fmt.Errorf("failed to start log export: %w", err)
	}

	return &Telemetry{tracer: tracer, logs: logs}, logs.Bridge(log, log.Level()), nil
}

// Enabled reports whether spans leave the process
func (t *Telemetry) Enabled() bool {
	return t.tracer.IsEnabled()
}

// Shutdown flushes both exporters
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(t.tracer.Shutdown(ctx), t.logs.Shutdown(ctx))
}

// New wires the logo fetcher, the printer driver and the print service
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	logoURL, err := logo.ResolveURL(cfg.Logo.URL, logo.CloudinaryConfig{
		CloudName: cfg.Logo.Cloudinary.CloudName,
		APIKey:    cfg.Logo.Cloudinary.APIKey,
		APISecret: cfg.Logo.Cloudinary.APISecret,
		PublicID:  cfg.Logo.Cloudinary.PublicID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logo URL: %w", err)
	}

	fetcher, err := logo.NewHTTPFetcher(&logo.HTTPFetcherConfig{
		URL:      logoURL,
		Timeout:  cfg.Logo.Timeout,
		MaxBytes: cfg.Logo.MaxBytes,
		Logger:   log.Named("logo"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logo fetcher: %w", err)
	}

	driver, err := printing.NewDriver(&printing.DriverConfig{
		Driver:          cfg.Printer.Driver,
		OutputDir:       cfg.Printer.OutputDir,
		Timeout:         cfg.Printer.Timeout,
		LPBinary:        cfg.Printer.LPBinary,
		LPStatBinary:    cfg.Printer.LPStatBinary,
		LPOptions:       cfg.Printer.LPOptions,
		FontFiles:       cfg.Printer.FontFiles,
		SystemFonts:     cfg.Printer.SystemFonts,
		MinPageWidth:    cfg.Printer.MinPageWidth,
		MaxPageWidth:    cfg.Printer.MaxPageWidth,
		MaxPageHeight:   cfg.Printer.MaxPageHeight,
		ChromeRemoteURL: cfg.Printer.ChromeRemoteURL,
		NoSandbox:       cfg.Printer.NoSandbox,
	}, log)
	if err != nil {
		return nil, err
	}

	business := receipt.Business{
		Name:    cfg.Business.Name,
		Address: cfg.Business.Address,
	}
	service := receiptapp.NewPrintService(driver, fetcher, &receiptapp.ServiceConfig{
		Business:       &business,
		DefaultPrinter: cfg.Printer.DefaultName,
	}, log.Named("receipt"))

	return &App{
		Service: service,
		Driver:  driver,
		LogoURL: logoURL,
	}, nil
}
