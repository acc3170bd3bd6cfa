package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	receiptapp "github.com/hidenkeys/receipt/internal/application/receipt"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/hidenkeys/receipt/internal/interfaces/http/dto"
)

// ReceiptPrinter prints a single receipt
type ReceiptPrinter interface {
	PrintReceipt(ctx context.Context, req *receipt.Request) (*receiptapp.PrintResult, error)
}

// ReceiptHandler handles receipt print requests
type ReceiptHandler struct {
	BaseHandler
	printer ReceiptPrinter
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(printer ReceiptPrinter) *ReceiptHandler {
	return &ReceiptHandler{printer: printer}
}

// RegisterRoutes registers the receipt routes on the given group
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	receipts.POST("/print", h.Print)
}

// Print prints a booking receipt and responds with the finished job.
// The call blocks until the printer has accepted or rejected the document.
func (h *ReceiptHandler) Print(c *gin.Context) {
	var req receiptapp.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.printer.PrintReceipt(c.Request.Context(), domainReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
