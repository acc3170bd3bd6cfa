package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/hidenkeys/receipt/internal/infrastructure/config"
	"github.com/hidenkeys/receipt/internal/infrastructure/logger"
	"github.com/hidenkeys/receipt/internal/infrastructure/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Name: "receipt", Env: "development"},
		Log: config.LogConfig{Level: "info", Format: "console", Output: "stderr"},
		Printer: config.PrinterConfig{
			Driver:       printing.DriverPNG,
			DefaultName:  "POS-80-test1",
			OutputDir:    t.TempDir(),
			Timeout:      time.Minute,
			LPBinary:     "lp",
			LPStatBinary: "lpstat",
		},
		Logo: config.LogoConfig{
			URL:      config.DefaultLogoURL,
			Timeout:  30 * time.Second,
			MaxBytes: 1 << 20,
		},
		Business: config.BusinessConfig{
			Name:    "TIMELESS APARTMENTS AND BAR",
			Address: []string{"62 LANDBRIDGE AVENUE"},
		},
	}
}

func TestNew(t *testing.T) {
	app, err := New(testConfig(t), nil)
	require.NoError(t, err)

	assert.NotNil(t, app.Service)
	assert.Equal(t, printing.DriverPNG, app.Driver.Name())
	assert.Equal(t, config.DefaultLogoURL, app.LogoURL)
}

func TestNew_CloudinaryLogo(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logo.Cloudinary = config.CloudinaryConfig{
		CloudName: "demo",
		PublicID:  "logo.png",
	}

	app, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, app.LogoURL, "res.cloudinary.com/demo/image/upload")
	assert.Contains(t, app.LogoURL, "logo.png")
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Printer.Driver = "dot-matrix"

	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.True(t, receipt.IsCode(err, receipt.ErrCodePrinter))
}

func TestNew_InvalidLogoURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logo.URL = "not a url"

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(config.LogConfig{Level: "debug", Format: "json", Output: "stdout"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = NewLogger(config.LogConfig{Level: "verbose", Format: "json", Output: "stdout"}, logger.CLIConfig())
	assert.Error(t, err)
}

func TestNewLogger_OutputFallsBackToBase(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.log")
	base := &logger.Config{Level: "info", Format: "json", Output: basePath}

	log, err := NewLogger(config.LogConfig{Level: "info", Format: "json"}, base)
	require.NoError(t, err)
	log.Info("from base")
	_ = log.Sync()

	data, err := os.ReadFile(basePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from base")

	overridePath := filepath.Join(dir, "override.log")
	log, err = NewLogger(config.LogConfig{Level: "info", Format: "json", Output: overridePath}, base)
	require.NoError(t, err)
	log.Info("from section")
	_ = log.Sync()

	data, err = os.ReadFile(overridePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from section")
	assert.Equal(t, basePath, base.Output)
}

func TestStartTelemetry_Disabled(t *testing.T) {
	log := zap.NewNop()

	tel, bridged, err := StartTelemetry(context.Background(), config.TelemetryConfig{
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1,
		ServiceName:       "receipt",
		LogsEnabled:       true,
	}, log)
	require.NoError(t, err)

	assert.False(t, tel.Enabled())
	assert.Same(t, log, bridged)
	assert.NoError(t, tel.Shutdown(context.Background()))
}
