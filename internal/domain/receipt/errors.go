package receipt

import "errors"

// Error codes for receipt printing failures
const (
	ErrCodeImageFetch      = "IMAGE_FETCH_FAILED"
	ErrCodeImageDecode     = "IMAGE_DECODE_FAILED"
	ErrCodePrinter         = "PRINTER_ERROR"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
)

// Error is a coded receipt printing error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewImageFetchError reports a logo download that did not succeed
func NewImageFetchError(message string, cause error) *Error {
	return NewError(ErrCodeImageFetch, message, cause)
}

// NewImageDecodeError reports logo bytes that could not be decoded
func NewImageDecodeError(message string, cause error) *Error {
	return NewError(ErrCodeImageDecode, message, cause)
}

// NewPrinterError reports an unavailable printer or a driver failure
func NewPrinterError(message string, cause error) *Error {
	return NewError(ErrCodePrinter, message, cause)
}

// NewArgumentError reports missing or malformed caller input
func NewArgumentError(message string, cause error) *Error {
	return NewError(ErrCodeInvalidArgument, message, cause)
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
