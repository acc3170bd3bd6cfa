package printing

import (
	"context"
	"image"
	"runtime"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
)

// Driver names accepted by NewDriver
const (
	DriverGDI  = "gdi"  // Windows spooler through GDI
	DriverCUPS = "cups" // CUPS through the lp command
	DriverPNG  = "png"  // Virtual printer writing PNG files
	DriverPDF  = "pdf"  // Virtual printer writing PDF files through headless Chrome
)

// Driver acquires handles to named printers
type Driver interface {
	// Name returns the driver name
	Name() string
	// Open acquires the named printer and returns a drawing surface bound to it.
	// The caller owns the surface and must Close it exactly once.
	Open(ctx context.Context, printerName string) (Surface, error)
	// Close releases any resources held by the driver
	Close() error
}

// Surface is a printer device context. Calls follow the spooler order:
// StartDoc, then StartPage, drawing calls, EndPage, and finally EndDoc.
// AbortDoc discards a started document so nothing is printed.
type Surface interface {
	StartDoc(title string) error
	StartPage() error
	// DrawImage stretches img into dst, in device units
	DrawImage(img image.Image, dst image.Rectangle) error
	// SetFont selects the face used by subsequent TextOut calls
	SetFont(font receipt.Font) error
	// TextOut draws text with its top-left corner at (x, y)
	TextOut(x, y int, text string) error
	EndPage() error
	EndDoc() error
	AbortDoc() error
	// Close releases the printer handle
	Close() error
}

// DefaultDriverName returns the platform printer driver
func DefaultDriverName() string {
	if runtime.GOOS == "windows" {
		return DriverGDI
	}
	return DriverCUPS
}
