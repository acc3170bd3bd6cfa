package printing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"go.uber.org/zap"
)

// PNGDriverConfig contains configuration for the PNG virtual printer
type PNGDriverConfig struct {
	// OutputDir is the root directory; each printer gets a subdirectory
	OutputDir string
	// Rasterizer renders pages (default: NewRasterizer(nil))
	Rasterizer *Rasterizer
	// Logger for operations
	Logger *zap.Logger
}

// PNGDriver is a virtual printer that writes each page to
// {output_dir}/{printer}/{job_id}-p{n}.png
type PNGDriver struct {
	config *PNGDriverConfig
	logger *zap.Logger
}

// NewPNGDriver creates a new PNG virtual printer
func NewPNGDriver(config *PNGDriverConfig) (*PNGDriver, error) {
	if config == nil || config.OutputDir == "" {
		return nil, receipt.NewPrinterError("png driver requires an output directory", nil)
	}
	if config.Rasterizer == nil {
		config.Rasterizer = NewRasterizer(nil)
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PNGDriver{config: config, logger: logger}, nil
}

// Name returns the driver name
func (d *PNGDriver) Name() string {
	return DriverPNG
}

// Open creates the printer's output directory and returns a surface on it
func (d *PNGDriver) Open(ctx context.Context, printerName string) (Surface, error) {
	dir, err := printerDir(d.config.OutputDir, printerName)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, receipt.NewPrinterError("failed to open printer "+printerName, err)
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
			path := filepath.Join(dir, fmt.Sprintf("%s-p%d.png", doc.ID, i+1))
			if err := os.WriteFile(path, data, 0644); err != nil {
				return receipt.NewPrinterError("failed to write page", err)
			}
			d.logger.Info("page written",
				zap.String("printer", printerName),
				zap.String("path", path),
				zap.Int("bytes", len(data)))
		}
		return nil
	}

	return newRecordingSurface(ctx, printerName, sink, nil), nil
}

// Close is a no-op
func (d *PNGDriver) Close() error {
	return nil
}

// printerDir maps a printer name to a directory under base, refusing names
// that would escape it.
func printerDir(base, printerName string) (string, error) {
	name := strings.TrimSpace(printerName)
	if name == "" {
		return "", receipt.NewPrinterError("printer name is required", nil)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", receipt.NewPrinterError("invalid printer name: "+printerName, nil)
	}
	return filepath.Join(base, name), nil
}

// Ensure PNGDriver implements Driver
var _ Driver = (*PNGDriver)(nil)
