package printing

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 60 * time.Second
	// CSS pixels per inch; recorded device units map 1:1 to CSS pixels
	cssPixelsPerInch = 96.0
)

// PDFDriverConfig contains configuration for the PDF virtual printer
type PDFDriverConfig struct {
	// OutputDir is the root directory; each printer gets a subdirectory
	OutputDir string
	// Timeout for a single document render (default: 60s)
	Timeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Rasterizer sizes pages from their content (default: NewRasterizer(nil))
	Rasterizer *Rasterizer
	// Logger for operations
	Logger *zap.Logger
}

// PDFDriver is a virtual printer that lays the recorded page out as
// absolutely positioned HTML and prints it to {output_dir}/{printer}/{job_id}.pdf
// with headless Chrome.
type PDFDriver struct {
	config      *PDFDriverConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewPDFDriver creates a new PDF virtual printer
func NewPDFDriver(config *PDFDriverConfig) (*PDFDriver, error) {
	if config == nil || config.OutputDir == "" {
		return nil, receipt.NewPrinterError("pdf driver requires an output directory", nil)
	}
	if config.Timeout == 0 {
		config.Timeout = defaultChromeTimeout
	}
	if config.Rasterizer == nil {
		config.Rasterizer = NewRasterizer(nil)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &PDFDriver{
		config: config,
		logger: logger,
	}
	d.initAllocator()

	return d, nil
}

// initAllocator initializes the Chrome allocator
func (d *PDFDriver) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if d.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if d.config.RemoteURL != "" {
		d.allocCtx, d.allocCancel = chromedp.NewRemoteAllocator(context.Background(), d.config.RemoteURL)
	} else {
		d.allocCtx, d.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Name returns the driver name
func (d *PDFDriver) Name() string {
	return DriverPDF
}

// Open creates the printer's output directory and returns a surface on it
func (d *PDFDriver) Open(ctx context.Context, printerName string) (Surface, error) {
	dir, err := printerDir(d.config.OutputDir, printerName)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, receipt.NewPrinterError("failed to open printer "+printerName, err)
	}

	sink := func(ctx context.Context, doc *Document) error {
		data, err := d.render(ctx, doc)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, doc.ID.String()+".pdf")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return receipt.NewPrinterError("failed to write document", err)
		}
		d.logger.Info("document written",
			zap.String("printer", printerName),
			zap.String("path", path),
			zap.Int("pages", len(doc.Pages)),
			zap.Int("bytes", len(data)))
		return nil
	}

	return newRecordingSurface(ctx, printerName, sink, nil), nil
}

// render prints every page of doc into a single PDF
func (d *PDFDriver) render(ctx context.Context, doc *Document) ([]byte, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	// Pages share one paper size, the largest any of them needs
	width, height := 0, 0
	for _, p := range doc.Pages {
		w, h, err := d.config.Rasterizer.PageSize(p)
		if err != nil {
			return nil, err
		}
		width, height = max(width, w), max(height, h)
	}

	content, err := buildDocumentHTML(doc, width, height)
	if err != nil {
		return nil, err
	}

	browserCtx, browserCancel := chromedp.NewContext(d.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			d.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Tie the browser tab to the caller's deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var pdfData []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, content).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(pixelsToInches(width)).
				WithPaperHeight(pixelsToInches(height)).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, receipt.NewPrinterError(
				fmt.Sprintf("PDF rendering timed out after %v", d.config.Timeout), err)
		}
		d.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, receipt.NewPrinterError("chromedp execution failed", err)
	}
	if len(pdfData) == 0 {
		return nil, receipt.NewPrinterError("generated PDF is empty", nil)
	}

	d.logger.Debug("PDF rendered",
		zap.String("document", doc.ID.String()),
		zap.Duration("duration", time.Since(startTime)))

	return pdfData, nil
}

// Close releases the browser allocator
func (d *PDFDriver) Close() error {
	if d.allocCancel != nil {
		d.allocCancel()
	}
	return nil
}

// buildDocumentHTML lays out every page at fixed positions, one sheet per page
func buildDocumentHTML(doc *Document, width, height int) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head>")
	buf.WriteString("<meta charset=\"UTF-8\">")
	buf.WriteString("<title>")
	buf.WriteString(html.EscapeString(doc.Title))
	buf.WriteString("</title>")
	buf.WriteString("<style>")
	buf.WriteString("html,body{margin:0;padding:0;background:#fff;}")
	fmt.Fprintf(&buf, ".sheet{position:relative;overflow:hidden;width:%dpx;height:%dpx;page-break-after:always;}", width, height)
	buf.WriteString(".sheet:last-child{page-break-after:auto;}")
	buf.WriteString(".op{position:absolute;margin:0;padding:0;}")
	buf.WriteString(".text{white-space:pre;line-height:1;color:#000;}")
	buf.WriteString("</style></head><body>")

	for _, p := range doc.Pages {
		buf.WriteString("<div class=\"sheet\">")
		for _, op := range p.Ops {
			switch op.Kind {
			case OpImage:
				if op.Rect.Empty() {
					continue
				}
				data, err := encodePNG(op.Image)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(&buf,
					"<img class=\"op\" style=\"left:%dpx;top:%dpx;width:%dpx;height:%dpx;\" src=\"data:image/png;base64,%s\">",
					op.Rect.Min.X, op.Rect.Min.Y, op.Rect.Dx(), op.Rect.Dy(),
					base64.StdEncoding.EncodeToString(data))
			case OpText:
				fmt.Fprintf(&buf,
					"<div class=\"op text\" style=\"left:%dpx;top:%dpx;font-family:%ssans-serif;font-size:%dpx;font-weight:%d;\">%s</div>",
					op.X, op.Y, cssFontFamily(op.Font.Name), op.Font.Height, op.Font.Weight,
					html.EscapeString(op.Text))
			}
		}
		buf.WriteString("</div>")
	}

	buf.WriteString("</body></html>")
	return buf.String(), nil
}

// cssFontFamily returns the quoted face name followed by a comma, keeping only
// letters, digits, spaces, underscores and hyphens. An empty result yields "".
func cssFontFamily(name string) string {
	clean := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '_', r == '-':
			return r
		}
		return -1
	}, name))
	if clean == "" {
		return ""
	}
	return "'" + clean + "',"
}

// pixelsToInches converts device units to inches (Chrome uses inches)
func pixelsToInches(px int) float64 {
	return float64(px) / cssPixelsPerInch
}

// Ensure PDFDriver implements Driver
var _ Driver = (*PDFDriver)(nil)
