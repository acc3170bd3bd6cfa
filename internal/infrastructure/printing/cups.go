package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"go.uber.org/zap"
)

const (
	defaultLPBinary     = "lp"
	defaultLPStatBinary = "lpstat"
	defaultCUPSTimeout  = 60 * time.Second
)

var lpRequestID = regexp.MustCompile(`request id is (\S+)`)

// CommandRunner runs an external command with stdin and returns its output
type CommandRunner func(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)

// execRunner runs commands with os/exec
func execRunner(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CUPSDriverConfig contains configuration for the CUPS driver
type CUPSDriverConfig struct {
	// LPBinary submits jobs (default: lp, searched in PATH)
	LPBinary string
	// LPStatBinary checks printers (default: lpstat, searched in PATH)
	LPStatBinary string
	// Timeout bounds each command (default: 60s)
	Timeout time.Duration
	// Options are passed to lp as -o values, e.g. "fit-to-page"
	Options []string
	// Rasterizer renders pages (default: NewRasterizer(nil))
	Rasterizer *Rasterizer
	// Runner overrides command execution (tests)
	Runner CommandRunner
	// Logger for operations
	Logger *zap.Logger
}

// CUPSDriver prints through the CUPS spooler. Pages are rasterized to PNG
// and submitted with lp; the printer is checked with lpstat when opened.
type CUPSDriver struct {
	config *CUPSDriverConfig
	logger *zap.Logger
}

// NewCUPSDriver creates a new CUPS driver
func NewCUPSDriver(config *CUPSDriverConfig) (*CUPSDriver, error) {
	if config == nil {
		config = &CUPSDriverConfig{}
	}
	if config.LPBinary == "" {
		config.LPBinary = defaultLPBinary
	}
	if config.LPStatBinary == "" {
		config.LPStatBinary = defaultLPStatBinary
	}
	if config.Timeout == 0 {
		config.Timeout = defaultCUPSTimeout
	}
	if config.Rasterizer == nil {
		config.Rasterizer = NewRasterizer(nil)
	}
	if config.Runner == nil {
		for _, bin := range []*string{&config.LPBinary, &config.LPStatBinary} {
			path, err := resolveBinaryPath(*bin)
			if err != nil {
				return nil, receipt.NewPrinterError(fmt.Sprintf("%s not found, is CUPS installed?", *bin), err)
			}
			*bin = path
		}
		config.Runner = execRunner
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CUPSDriver{config: config, logger: logger}, nil
}

// resolveBinaryPath finds the full path to the binary
func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Name returns the driver name
func (d *CUPSDriver) Name() string {
	return DriverCUPS
}

// Open checks that the printer exists and returns a surface bound to it
func (d *CUPSDriver) Open(ctx context.Context, printerName string) (Surface, error) {
	if strings.TrimSpace(printerName) == "" {
		return nil, receipt.NewPrinterError("printer name is required", nil)
	}

	if _, err := d.run(ctx, nil, d.config.LPStatBinary, "-p", printerName); err != nil {
		return nil, receipt.NewPrinterError("printer not available: "+printerName, err)
	}

	sink := func(ctx context.Context, doc *Document) error {
		for i, page := range doc.Pages {
			img, err := d.config.Rasterizer.Rasterize(page)
			if err != nil {
				return err
			}
			data, err := encodePNG(img)
			if err != nil {
				return err
			}

			args := []string{"-d", printerName, "-t", doc.Title}
			for _, opt := range d.config.Options {
				args = append(args, "-o", opt)
			}
			stdout, err := d.run(ctx, data, d.config.LPBinary, args...)
			if err != nil {
				return receipt.NewPrinterError("failed to submit page to "+printerName, err)
			}

			requestID := ""
			if m := lpRequestID.FindSubmatch(stdout); m != nil {
				requestID = string(m[1])
			}
			d.logger.Info("page submitted",
				zap.String("printer", printerName),
				zap.String("document", doc.ID.String()),
				zap.Int("page", i+1),
				zap.String("request_id", requestID))
		}
		return nil
	}

	return newRecordingSurface(ctx, printerName, sink, nil), nil
}

func (d *CUPSDriver) run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	d.logger.Debug("executing command", zap.String("binary", name), zap.Strings("args", args))

	stdout, stderr, err := d.config.Runner(ctx, stdin, name, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %v", filepath.Base(name), d.config.Timeout)
		}
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout, nil
}

// Close is a no-op
func (d *CUPSDriver) Close() error {
	return nil
}

// Ensure CUPSDriver implements Driver
var _ Driver = (*CUPSDriver)(nil)
