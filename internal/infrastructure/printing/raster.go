package printing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
	xdraw "golang.org/x/image/draw"
)

const (
	defaultMinPageWidth  = 600
	defaultMaxPageWidth  = 4096
	defaultMaxPageHeight = 8192
	defaultPageMargin    = 100
)

// RasterConfig contains configuration for page rasterization
type RasterConfig struct {
	// MinWidth is the narrowest canvas produced, in device units (default: 600)
	MinWidth int
	// MaxWidth and MaxHeight bound the canvas; larger pages are rejected
	// (default: 4096 x 8192)
	MaxWidth  int
	MaxHeight int
	// Margin is added right of and below the content (default: 100)
	Margin int
	// Fonts resolves text faces (default: embedded fonts only)
	Fonts *FontResolver
}

// Rasterizer draws recorded pages onto white canvases sized to their content
type Rasterizer struct {
	config *RasterConfig
}

// NewRasterizer creates a new Rasterizer
func NewRasterizer(config *RasterConfig) *Rasterizer {
	if config == nil {
		config = &RasterConfig{}
	}
	if config.MinWidth == 0 {
		config.MinWidth = defaultMinPageWidth
	}
	if config.MaxWidth == 0 {
		config.MaxWidth = defaultMaxPageWidth
	}
	if config.MaxHeight == 0 {
		config.MaxHeight = defaultMaxPageHeight
	}
	if config.Margin == 0 {
		config.Margin = defaultPageMargin
	}
	if config.Fonts == nil {
		config.Fonts = NewFontResolver(nil, false)
	}
	return &Rasterizer{config: config}
}

// Rasterize renders page onto a new canvas
func (r *Rasterizer) Rasterize(page *Page) (image.Image, error) {
	width, height, err := r.PageSize(page)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	for _, op := range page.Ops {
		switch op.Kind {
		case OpImage:
			if op.Rect.Empty() {
				continue
			}
			scaled := image.NewRGBA(image.Rect(0, 0, op.Rect.Dx(), op.Rect.Dy()))
			xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), op.Image, op.Image.Bounds(), xdraw.Src, nil)
			dc.DrawImage(scaled, op.Rect.Min.X, op.Rect.Min.Y)
		case OpText:
			face, err := r.config.Fonts.Face(op.Font)
			if err != nil {
				return nil, receipt.NewPrinterError("failed to resolve font", err)
			}
			dc.SetFontFace(face)
			dc.DrawStringAnchored(op.Text, float64(op.X), float64(op.Y), 0, 1)
		}
	}

	return dc.Image(), nil
}

// PageSize returns the canvas size for page: its content plus the margin,
// no narrower than MinWidth. Pages beyond MaxWidth x MaxHeight are a printer error.
func (r *Rasterizer) PageSize(page *Page) (int, int, error) {
	bounds, err := r.Bounds(page)
	if err != nil {
		return 0, 0, err
	}
	width := max(r.config.MinWidth, bounds.Max.X+r.config.Margin)
	height := bounds.Max.Y + r.config.Margin
	if width > r.config.MaxWidth || height > r.config.MaxHeight {
		return 0, 0, receipt.NewPrinterError(fmt.Sprintf(
			"page of %dx%d exceeds the maximum of %dx%d",
			width, height, r.config.MaxWidth, r.config.MaxHeight), nil)
	}
	return width, height, nil
}

// Bounds returns the device area covered by the page's operations
func (r *Rasterizer) Bounds(page *Page) (image.Rectangle, error) {
	var bounds image.Rectangle
	measure := gg.NewContext(1, 1)
	for _, op := range page.Ops {
		switch op.Kind {
		case OpImage:
			bounds = bounds.Union(op.Rect)
		case OpText:
			face, err := r.config.Fonts.Face(op.Font)
			if err != nil {
				return image.Rectangle{}, receipt.NewPrinterError("failed to resolve font", err)
			}
			measure.SetFontFace(face)
			w, h := measure.MeasureString(op.Text)
			bounds = bounds.Union(image.Rect(op.X, op.Y,
				op.X+int(math.Ceil(w)), op.Y+int(math.Ceil(h))))
		}
	}
	return bounds, nil
}

// encodePNG encodes a rendered page
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, receipt.NewPrinterError("failed to encode page", err)
	}
	return buf.Bytes(), nil
}
