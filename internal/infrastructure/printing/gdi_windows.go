//go:build windows

package printing

import (
	"context"
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	modwinspool = windows.NewLazySystemDLL("winspool.drv")
	modgdi32    = windows.NewLazySystemDLL("gdi32.dll")

	procOpenPrinterW  = modwinspool.NewProc("OpenPrinterW")
	procClosePrinter  = modwinspool.NewProc("ClosePrinter")
	procCreateDCW     = modgdi32.NewProc("CreateDCW")
	procDeleteDC      = modgdi32.NewProc("DeleteDC")
	procStartDocW     = modgdi32.NewProc("StartDocW")
	procEndDoc        = modgdi32.NewProc("EndDoc")
	procAbortDoc      = modgdi32.NewProc("AbortDoc")
	procStartPage     = modgdi32.NewProc("StartPage")
	procEndPage       = modgdi32.NewProc("EndPage")
	procStretchDIBits = modgdi32.NewProc("StretchDIBits")
	procCreateFontW   = modgdi32.NewProc("CreateFontW")
	procSelectObject  = modgdi32.NewProc("SelectObject")
	procDeleteObject  = modgdi32.NewProc("DeleteObject")
	procTextOutW      = modgdi32.NewProc("TextOutW")
	procSetBkMode     = modgdi32.NewProc("SetBkMode")
)

const (
	biRGB          = 0
	dibRGBColors   = 0
	srcCopy        = 0x00CC0020
	transparent    = 1
	defaultCharset = 1
)

type docInfoW struct {
	cbSize       int32
	lpszDocName  *uint16
	lpszOutput   *uint16
	lpszDatatype *uint16
	fwType       uint32
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// GDIDriver prints through the Windows spooler with a GDI device context
type GDIDriver struct {
	logger *zap.Logger
}

func newGDIDriver(config *GDIDriverConfig) (Driver, error) {
	if config == nil {
		config = &GDIDriverConfig{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := modgdi32.Load(); err != nil {
		return nil, receipt.NewPrinterError("gdi32.dll unavailable", err)
	}
	if err := modwinspool.Load(); err != nil {
		return nil, receipt.NewPrinterError("winspool.drv unavailable", err)
	}
	return &GDIDriver{logger: logger}, nil
}

// Name returns the driver name
func (d *GDIDriver) Name() string {
	return DriverGDI
}

// Open acquires the spooler handle and creates a device context for it
func (d *GDIDriver) Open(_ context.Context, printerName string) (Surface, error) {
	if strings.TrimSpace(printerName) == "" {
		return nil, receipt.NewPrinterError("printer name is required", nil)
	}
	name, err := windows.UTF16PtrFromString(printerName)
	if err != nil {
		return nil, receipt.NewPrinterError("invalid printer name: "+printerName, err)
	}

	var handle windows.Handle
	r, _, callErr := procOpenPrinterW.Call(uintptr(unsafe.Pointer(name)), uintptr(unsafe.Pointer(&handle)), 0)
	if r == 0 {
		return nil, receipt.NewPrinterError("failed to open printer "+printerName, callErr)
	}

	driver, _ := windows.UTF16PtrFromString("WINSPOOL")
	hdc, _, callErr := procCreateDCW.Call(uintptr(unsafe.Pointer(driver)), uintptr(unsafe.Pointer(name)), 0, 0)
	if hdc == 0 {
		procClosePrinter.Call(uintptr(handle))
		return nil, receipt.NewPrinterError("failed to create device context for "+printerName, callErr)
	}
	procSetBkMode.Call(hdc, transparent)

	d.logger.Debug("printer opened", zap.String("printer", printerName))
	return &gdiSurface{printer: handle, hdc: hdc, logger: d.logger}, nil
}

// Close is a no-op
func (d *GDIDriver) Close() error {
	return nil
}

// gdiSurface wraps a printer device context
type gdiSurface struct {
	printer windows.Handle
	hdc     uintptr
	font    uintptr
	logger  *zap.Logger

	inDoc  bool
	closed bool
}

func (s *gdiSurface) check() error {
	if s.closed {
		return receipt.NewPrinterError("printer handle is closed", nil)
	}
	return nil
}

func (s *gdiSurface) StartDoc(title string) error {
	if err := s.check(); err != nil {
		return err
	}
	name, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return receipt.NewPrinterError("invalid document title", err)
	}
	di := docInfoW{lpszDocName: name}
	di.cbSize = int32(unsafe.Sizeof(di))
	r, _, callErr := procStartDocW.Call(s.hdc, uintptr(unsafe.Pointer(&di)))
	if int32(r) <= 0 {
		return receipt.NewPrinterError("StartDoc failed", callErr)
	}
	s.inDoc = true
	s.logger.Debug("document started", zap.Int32("job", int32(r)))
	return nil
}

func (s *gdiSurface) StartPage() error {
	return s.call(procStartPage, "StartPage")
}

func (s *gdiSurface) DrawImage(img image.Image, dst image.Rectangle) error {
	if err := s.check(); err != nil {
		return err
	}
	if img == nil {
		return receipt.NewPrinterError("image is nil", nil)
	}
	dst = dst.Canon()
	if dst.Empty() {
		return nil
	}
	bits, w, h := toDIB(img)
	if w == 0 || h == 0 {
		return nil
	}
	hdr := bitmapInfoHeader{
		Width:       int32(w),
		Height:      -int32(h), // top-down
		Planes:      1,
		BitCount:    24,
		Compression: biRGB,
	}
	hdr.Size = uint32(unsafe.Sizeof(hdr))

	r, _, callErr := procStretchDIBits.Call(s.hdc,
		uintptr(dst.Min.X), uintptr(dst.Min.Y), uintptr(dst.Dx()), uintptr(dst.Dy()),
		0, 0, uintptr(w), uintptr(h),
		uintptr(unsafe.Pointer(&bits[0])), uintptr(unsafe.Pointer(&hdr)),
		dibRGBColors, srcCopy)
	if r == 0 {
		return receipt.NewPrinterError("StretchDIBits failed", callErr)
	}
	return nil
}

func (s *gdiSurface) SetFont(font receipt.Font) error {
	if err := s.check(); err != nil {
		return err
	}
	face, err := windows.UTF16PtrFromString(font.Name)
	if err != nil {
		return receipt.NewPrinterError("invalid font name", err)
	}
	hfont, _, callErr := procCreateFontW.Call(
		uintptr(font.Height), 0, 0, 0, uintptr(font.Weight),
		0, 0, 0, defaultCharset, 0, 0, 0, 0,
		uintptr(unsafe.Pointer(face)))
	if hfont == 0 {
		return receipt.NewPrinterError(fmt.Sprintf("CreateFont %q failed", font.Name), callErr)
	}
	procSelectObject.Call(s.hdc, hfont)
	if s.font != 0 {
		procDeleteObject.Call(s.font)
	}
	s.font = hfont
	return nil
}

func (s *gdiSurface) TextOut(x, y int, text string) error {
	if err := s.check(); err != nil {
		return err
	}
	str, err := windows.UTF16FromString(text)
	if err != nil {
		return receipt.NewPrinterError("invalid text", err)
	}
	n := len(str) - 1 // drop terminator
	if n == 0 {
		return nil
	}
	r, _, callErr := procTextOutW.Call(s.hdc, uintptr(x), uintptr(y), uintptr(unsafe.Pointer(&str[0])), uintptr(n))
	if r == 0 {
		return receipt.NewPrinterError("TextOut failed", callErr)
	}
	return nil
}

func (s *gdiSurface) EndPage() error {
	return s.call(procEndPage, "EndPage")
}

func (s *gdiSurface) EndDoc() error {
	if err := s.call(procEndDoc, "EndDoc"); err != nil {
		return err
	}
	s.inDoc = false
	return nil
}

func (s *gdiSurface) AbortDoc() error {
	if err := s.check(); err != nil {
		return err
	}
	if !s.inDoc {
		return nil
	}
	s.inDoc = false
	return s.call(procAbortDoc, "AbortDoc")
}

func (s *gdiSurface) call(proc *windows.LazyProc, name string) error {
	if err := s.check(); err != nil {
		return err
	}
	r, _, callErr := proc.Call(s.hdc)
	if int32(r) <= 0 {
		return receipt.NewPrinterError(name+" failed", callErr)
	}
	return nil
}

// Close aborts an unfinished document and releases the device context and
// spooler handle. Later calls are no-ops.
func (s *gdiSurface) Close() error {
	if s.closed {
		return nil
	}
	if s.inDoc {
		procAbortDoc.Call(s.hdc)
		s.inDoc = false
	}
	s.closed = true
	procDeleteDC.Call(s.hdc)
	if s.font != 0 {
		procDeleteObject.Call(s.font)
		s.font = 0
	}
	if r, _, err := procClosePrinter.Call(uintptr(s.printer)); r == 0 {
		return receipt.NewPrinterError("failed to release printer", err)
	}
	return nil
}

// Ensure gdiSurface implements Surface
var _ Surface = (*gdiSurface)(nil)
