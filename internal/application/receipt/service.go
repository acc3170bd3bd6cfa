package receipt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/hidenkeys/receipt/internal/infrastructure/logger"
	"github.com/hidenkeys/receipt/internal/infrastructure/logo"
	"github.com/hidenkeys/receipt/internal/infrastructure/printing"
	"github.com/hidenkeys/receipt/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ServiceConfig holds the fixed content of every receipt
type ServiceConfig struct {
	// Layout places the logo and text (default: receipt.DefaultLayout())
	Layout *receipt.Layout
	// Business is the header under the logo (default: receipt.DefaultBusiness())
	Business *receipt.Business
	// DefaultPrinter is used when a request names no printer
	DefaultPrinter string
}

// PrintService prints booking receipts. Calls are serialized so a printer
// handle is only ever owned by one print.
type PrintService struct {
	driver         printing.Driver
	fetcher        logo.Fetcher
	layout         receipt.Layout
	business       receipt.Business
	defaultPrinter string
	now            func() time.Time
	logger         *zap.Logger

	mu sync.Mutex
}

// NewPrintService creates a new PrintService
func NewPrintService(
	driver printing.Driver,
	fetcher logo.Fetcher,
	config *ServiceConfig,
	log *zap.Logger,
) *PrintService {
	if config == nil {
		config = &ServiceConfig{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	layout := receipt.DefaultLayout()
	if config.Layout != nil {
		layout = *config.Layout
	}
	business := receipt.DefaultBusiness()
	if config.Business != nil {
		business = *config.Business
	}
	return &PrintService{
		driver:         driver,
		fetcher:        fetcher,
		layout:         layout,
		business:       business,
		defaultPrinter: config.DefaultPrinter,
		now:            time.Now,
		logger:         log,
	}
}

// SetClock replaces the time source used for the printed date and time
func (s *PrintService) SetClock(now func() time.Time) {
	s.now = now
}

// PrintReceipt prints one receipt. Any failure after the document is
// started aborts it, and the printer handle is released on every path.
func (s *PrintService) PrintReceipt(ctx context.Context, req *receipt.Request) (result *PrintResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "receipt.print")
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err, attribute.String("code", receipt.CodeOf(err)))
		} else {
			telemetry.SetOK(span)
		}
		span.End()
	}()

	if req == nil {
		return nil, receipt.NewArgumentError("receipt request is nil", nil)
	}
	if err := receipt.ValidateAmount(req.TotalAmount); err != nil {
		return nil, err
	}
	printerName := req.PrinterName
	if printerName == "" {
		printerName = s.defaultPrinter
	}
	if printerName == "" {
		return nil, receipt.NewArgumentError("printer name is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	job := receipt.NewJob(printerName, now)
	span.SetAttributes(
		attribute.String("job_id", job.ID.String()),
		attribute.String("printer", printerName),
	)
	log := logger.FromContext(ctx, s.logger).With(
		zap.String("job_id", job.ID.String()),
		zap.String("printer", printerName))

	page, err := s.print(ctx, job, req, now, log)
	if err != nil {
		_ = job.Abandon(err, s.now())
		log.Error("receipt print failed",
			zap.String("code", receipt.CodeOf(err)),
			zap.String("status", job.Status.String()),
			zap.Error(err))
		return nil, err
	}

	_ = job.Complete(s.now())
	log.Info("receipt printed",
		zap.String("guest", req.GuestName),
		zap.String("amount", receipt.FormatAmount(req.TotalAmount)),
		zap.Int("lines", len(page.Lines)))

	return toPrintResult(job, page), nil
}

func (s *PrintService) print(ctx context.Context, job *receipt.Job, req *receipt.Request, now time.Time, log *zap.Logger) (*receipt.Page, error) {
	surface, err := s.driver.Open(ctx, job.PrinterName)
	if err != nil {
		return nil, asPrinterError("failed to open printer "+job.PrinterName, err)
	}
	defer func() {
		if err := surface.Close(); err != nil {
			log.Warn("failed to release printer", zap.Error(err))
		}
	}()

	if err := surface.StartDoc(receipt.DocumentTitle); err != nil {
		return nil, asPrinterError("failed to start document", err)
	}
	_ = job.StartPrinting()
	log.Debug("document started", zap.String("status", job.Status.String()))

	page, err := s.drawPage(ctx, surface, req, now, log)
	if err == nil {
		err = s.endDoc(ctx, surface)
	}
	if err != nil {
		if abortErr := surface.AbortDoc(); abortErr != nil {
			log.Warn("failed to abort document", zap.Error(abortErr))
		}
		return nil, err
	}
	return page, nil
}

func (s *PrintService) drawPage(ctx context.Context, surface printing.Surface, req *receipt.Request, now time.Time, log *zap.Logger) (*receipt.Page, error) {
	if err := surface.StartPage(); err != nil {
		return nil, asPrinterError("failed to start page", err)
	}

	data, err := s.fetchLogo(ctx)
	if err != nil {
		return nil, err
	}
	img, format, err := logo.Decode(data)
	if err != nil {
		return nil, err
	}
	src := img.Bounds()
	height := s.layout.ScaledHeight(src.Dx(), src.Dy())
	log.Debug("logo decoded",
		zap.String("format", format),
		zap.Int("width", src.Dx()),
		zap.Int("height", src.Dy()),
		zap.Int("scaled_height", height))

	page := s.layout.Compose(req, s.business, now, height)
	if height > 0 {
		scaled := logo.Scale(img, s.layout.ImageWidth, height)
		if err := surface.DrawImage(scaled, page.ImageRect); err != nil {
			return nil, asPrinterError("failed to draw logo", err)
		}
	}

	if err := surface.SetFont(page.Font); err != nil {
		return nil, asPrinterError("failed to select font", err)
	}
	for _, line := range page.Lines {
		if err := surface.TextOut(line.X, line.Y, line.Text); err != nil {
			return nil, asPrinterError("failed to draw text", err)
		}
	}

	if err := surface.EndPage(); err != nil {
		return nil, asPrinterError("failed to end page", err)
	}
	return page, nil
}

func (s *PrintService) fetchLogo(ctx context.Context) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "logo.fetch")
	defer span.End()

	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if receipt.CodeOf(err) == "" {
			err = receipt.NewImageFetchError("failed to fetch logo", err)
		}
		telemetry.RecordError(span, err, attribute.String("code", receipt.CodeOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.Int("logo.bytes", len(data)))
	telemetry.SetOK(span)
	return data, nil
}

// endDoc hands the finished document to the spooler
func (s *PrintService) endDoc(ctx context.Context, surface printing.Surface) error {
	_, span := telemetry.StartSpan(ctx, "printer.end_doc")
	defer span.End()

	if err := surface.EndDoc(); err != nil {
		err = asPrinterError("failed to end document", err)
		telemetry.RecordError(span, err, attribute.String("code", receipt.CodeOf(err)))
		return err
	}
	telemetry.SetOK(span)
	return nil
}

// asPrinterError keeps coded errors and wraps anything else as a printer error
func asPrinterError(message string, err error) error {
	var coded *receipt.Error
	if errors.As(err, &coded) {
		return err
	}
	return receipt.NewPrinterError(message, err)
}
