package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/shopspring/decimal"
)

// PrintReceiptRequest is the input of a receipt print. total_amount accepts
// a JSON number or a numeric string; printer_name falls back to the
// configured default.
type PrintReceiptRequest struct {
	PrinterName  string           `json:"printer_name"`
	GuestName    string           `json:"guest_name"`
	RoomType     string           `json:"room_type"`
	CheckInDate  string           `json:"check_in_date"`
	CheckOutDate string           `json:"check_out_date"`
	TotalAmount  *decimal.Decimal `json:"total_amount"`
}

// ToDomain converts the request to a domain receipt request
func (r *PrintReceiptRequest) ToDomain() (*receipt.Request, error) {
	if r.TotalAmount == nil {
		return nil, receipt.NewArgumentError("total amount is required", nil)
	}
	if err := receipt.ValidateAmount(*r.TotalAmount); err != nil {
		return nil, err
	}
	return &receipt.Request{
		PrinterName:  r.PrinterName,
		GuestName:    r.GuestName,
		RoomType:     r.RoomType,
		CheckInDate:  r.CheckInDate,
		CheckOutDate: r.CheckOutDate,
		TotalAmount:  *r.TotalAmount,
	}, nil
}

// PrintResult describes a receipt handed to the printer
type PrintResult struct {
	JobID       uuid.UUID      `json:"job_id"`
	PrinterName string         `json:"printer_name"`
	Status      string         `json:"status"`
	Lines       []receipt.Line `json:"lines"`
	ImageHeight int            `json:"image_height"`
	CreatedAt   time.Time      `json:"created_at"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
}

func toPrintResult(job *receipt.Job, page *receipt.Page) *PrintResult {
	result := &PrintResult{
		JobID:       job.ID,
		PrinterName: job.PrinterName,
		Status:      job.Status.String(),
		CreatedAt:   job.CreatedAt,
		FinishedAt:  job.FinishedAt,
	}
	if page != nil {
		result.Lines = page.Lines
		result.ImageHeight = page.ImageRect.Dy()
	}
	return result
}
