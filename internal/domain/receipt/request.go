package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Request carries everything needed to print one booking receipt.
// Only TotalAmount is checked; the text fields are printed as given.
type Request struct {
	PrinterName  string          `json:"printer_name"`
	GuestName    string          `json:"guest_name"`
	RoomType     string          `json:"room_type"`
	CheckInDate  string          `json:"check_in_date"`
	CheckOutDate string          `json:"check_out_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewRequest builds a Request from raw string input, parsing the amount
func NewRequest(printerName, guestName, roomType, checkInDate, checkOutDate, totalAmount string) (*Request, error) {
	amount, err := ParseAmount(totalAmount)
	if err != nil {
		return nil, err
	}
	return &Request{
		PrinterName:  printerName,
		GuestName:    guestName,
		RoomType:     roomType,
		CheckInDate:  checkInDate,
		CheckOutDate: checkOutDate,
		TotalAmount:  amount,
	}, nil
}

const (
	// MaxAmountLength bounds the raw amount text
	MaxAmountLength = 64
	// MaxAmountDigits bounds the digits left of the decimal point
	MaxAmountDigits = 15
	// MaxAmountScale bounds the digits right of the decimal point
	MaxAmountScale = 64
	// maxCoefficientBits fits MaxAmountDigits+MaxAmountScale decimal digits
	maxCoefficientBits = 263
)

// ParseAmount parses a numeric amount such as "250.5", " 99.999 " or "1.5e2"
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, NewArgumentError("total amount is required", nil)
	}
	if len(trimmed) > MaxAmountLength {
		return decimal.Zero, NewArgumentError(
			fmt.Sprintf("total amount exceeds %d characters", MaxAmountLength), nil)
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, NewArgumentError("total amount must be a number: "+s, err)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount rejects amounts with more than MaxAmountDigits integer
// digits or MaxAmountScale fractional digits. The checks read the exponent and
// coefficient size first so huge values are rejected without expanding them.
func ValidateAmount(amount decimal.Decimal) error {
	exp := int64(amount.Exponent())
	if exp >= MaxAmountDigits || exp < -MaxAmountScale {
		return NewArgumentError("total amount is out of range", nil)
	}
	if amount.IsZero() {
		return nil
	}
	if amount.Coefficient().BitLen() > maxCoefficientBits {
		return NewArgumentError("total amount is out of range", nil)
	}
	if digits := int64(amount.NumDigits()) + exp; digits > MaxAmountDigits {
		return NewArgumentError(
			fmt.Sprintf("total amount exceeds %d integer digits", MaxAmountDigits), nil)
	}
	return nil
}
