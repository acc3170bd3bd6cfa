package printing

import (
	"fmt"
	"sort"
	"time"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"go.uber.org/zap"
)

// DriverConfig selects and configures a printer driver
type DriverConfig struct {
	// Driver is one of gdi, cups, png, pdf (default: gdi on windows, cups elsewhere)
	Driver string
	// OutputDir is used by the png and pdf virtual printers
	OutputDir string
	// Timeout bounds spooler commands and PDF rendering
	Timeout time.Duration
	// LPBinary and LPStatBinary override the CUPS commands
	LPBinary     string
	LPStatBinary string
	// LPOptions are passed to lp as -o values
	LPOptions []string
	// FontFiles maps face names (e.g. "Arial") to TTF files
	FontFiles map[string]string
	// SystemFonts enables searching the platform font directories
	SystemFonts bool
	// MinPageWidth is the narrowest raster canvas, in device units
	MinPageWidth int
	// MaxPageWidth and MaxPageHeight bound the raster canvas and PDF paper
	MaxPageWidth  int
	MaxPageHeight int
	// ChromeRemoteURL points the pdf driver at a running Chrome
	ChromeRemoteURL string
	// NoSandbox runs the pdf driver's Chrome without sandbox
	NoSandbox bool
}

type driverFactory func(cfg *DriverConfig, raster *Rasterizer, logger *zap.Logger) (Driver, error)

var driverFactories = map[string]driverFactory{
	DriverGDI: func(_ *DriverConfig, _ *Rasterizer, logger *zap.Logger) (Driver, error) {
		return newGDIDriver(&GDIDriverConfig{Logger: logger})
	},
	DriverCUPS: func(cfg *DriverConfig, raster *Rasterizer, logger *zap.Logger) (Driver, error) {
		return NewCUPSDriver(&CUPSDriverConfig{
			LPBinary:     cfg.LPBinary,
			LPStatBinary: cfg.LPStatBinary,
			Timeout:      cfg.Timeout,
			Options:      cfg.LPOptions,
			Rasterizer:   raster,
			Logger:       logger,
		})
	},
	DriverPNG: func(cfg *DriverConfig, raster *Rasterizer, logger *zap.Logger) (Driver, error) {
		return NewPNGDriver(&PNGDriverConfig{
			OutputDir:  cfg.OutputDir,
			Rasterizer: raster,
			Logger:     logger,
		})
	},
	DriverPDF: func(cfg *DriverConfig, raster *Rasterizer, logger *zap.Logger) (Driver, error) {
		return NewPDFDriver(&PDFDriverConfig{
			OutputDir:  cfg.OutputDir,
			Timeout:    cfg.Timeout,
			RemoteURL:  cfg.ChromeRemoteURL,
			NoSandbox:  cfg.NoSandbox,
			Rasterizer: raster,
			Logger:     logger,
		})
	},
}

// DriverNames returns the names accepted by NewDriver
func DriverNames() []string {
	names := make([]string, 0, len(driverFactories))
	for name := range driverFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDriver creates the driver named by cfg.Driver
func NewDriver(cfg *DriverConfig, logger *zap.Logger) (Driver, error) {
	if cfg == nil {
		cfg = &DriverConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	name := cfg.Driver
	if name == "" {
		name = DefaultDriverName()
	}
	factory, ok := driverFactories[name]
	if !ok {
		return nil, receipt.NewPrinterError(fmt.Sprintf("unknown printer driver %q (want one of %v)", name, DriverNames()), nil)
	}

	raster := NewRasterizer(&RasterConfig{
		MinWidth:  cfg.MinPageWidth,
		MaxWidth:  cfg.MaxPageWidth,
		MaxHeight: cfg.MaxPageHeight,
		Fonts:     NewFontResolver(cfg.FontFiles, cfg.SystemFonts),
	})

	driver, err := factory(cfg, raster, logger.Named("printer"))
	if err != nil {
		return nil, err
	}
	logger.Info("printer driver ready", zap.String("driver", driver.Name()))
	return driver, nil
}
