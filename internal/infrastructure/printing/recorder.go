package printing

import (
	"context"
	"image"

	"github.com/google/uuid"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
)

// OpKind identifies a recorded drawing operation
type OpKind int

const (
	OpImage OpKind = iota
	OpText
)

// Op is one drawing call recorded on a page
type Op struct {
	Kind  OpKind
	Image image.Image     // OpImage
	Rect  image.Rectangle // OpImage destination
	X, Y  int             // OpText top-left corner
	Text  string          // OpText
	Font  receipt.Font    // OpText face
}

// Page holds the operations drawn between StartPage and EndPage
type Page struct {
	Ops []Op
}

// Document is a finished document handed to a driver's sink
type Document struct {
	ID          uuid.UUID
	Title       string
	PrinterName string
	Pages       []*Page
}

// sinkFunc delivers a finished document to the device
type sinkFunc func(ctx context.Context, doc *Document) error

// recordingSurface implements Surface by recording pages in memory and
// delivering them to a sink when the document ends.
type recordingSurface struct {
	ctx         context.Context
	printerName string
	sink        sinkFunc
	release     func() error

	doc    *Document
	page   *Page
	font   receipt.Font
	closed bool
}

func newRecordingSurface(ctx context.Context, printerName string, sink sinkFunc, release func() error) *recordingSurface {
	return &recordingSurface{
		ctx:         ctx,
		printerName: printerName,
		sink:        sink,
		release:     release,
		font:        receipt.DefaultLayout().Font,
	}
}

func (s *recordingSurface) checkOpen() error {
	if s.closed {
		return receipt.NewPrinterError("printer handle is closed", nil)
	}
	return nil
}

func (s *recordingSurface) StartDoc(title string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.doc != nil {
		return receipt.NewPrinterError("document already started", nil)
	}
	s.doc = &Document{
		ID:          uuid.New(),
		Title:       title,
		PrinterName: s.printerName,
	}
	return nil
}

func (s *recordingSurface) StartPage() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.doc == nil {
		return receipt.NewPrinterError("page started outside a document", nil)
	}
	if s.page != nil {
		return receipt.NewPrinterError("page already started", nil)
	}
	s.page = &Page{}
	return nil
}

func (s *recordingSurface) checkPage() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.page == nil {
		return receipt.NewPrinterError("drawing outside a page", nil)
	}
	return nil
}

func (s *recordingSurface) DrawImage(img image.Image, dst image.Rectangle) error {
	if err := s.checkPage(); err != nil {
		return err
	}
	if img == nil {
		return receipt.NewPrinterError("image is nil", nil)
	}
	s.page.Ops = append(s.page.Ops, Op{Kind: OpImage, Image: img, Rect: dst.Canon()})
	return nil
}

func (s *recordingSurface) SetFont(font receipt.Font) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if font.Height <= 0 {
		return receipt.NewPrinterError("font height must be positive", nil)
	}
	s.font = font
	return nil
}

func (s *recordingSurface) TextOut(x, y int, text string) error {
	if err := s.checkPage(); err != nil {
		return err
	}
	s.page.Ops = append(s.page.Ops, Op{Kind: OpText, X: x, Y: y, Text: text, Font: s.font})
	return nil
}

func (s *recordingSurface) EndPage() error {
	if err := s.checkPage(); err != nil {
		return err
	}
	s.doc.Pages = append(s.doc.Pages, s.page)
	s.page = nil
	return nil
}

func (s *recordingSurface) EndDoc() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.doc == nil {
		return receipt.NewPrinterError("no document started", nil)
	}
	if s.page != nil {
		return receipt.NewPrinterError("page not ended", nil)
	}
	doc := s.doc
	s.doc = nil
	if len(doc.Pages) == 0 {
		return receipt.NewPrinterError("document has no pages", nil)
	}
	return s.sink(s.ctx, doc)
}

func (s *recordingSurface) AbortDoc() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.doc = nil
	s.page = nil
	return nil
}

// Close discards any unfinished document and releases the handle once.
// Later calls are no-ops.
func (s *recordingSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.doc = nil
	s.page = nil
	if s.release != nil {
		return s.release()
	}
	return nil
}

// Ensure recordingSurface implements Surface
var _ Surface = (*recordingSurface)(nil)
