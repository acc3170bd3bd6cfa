//go:build !windows

package printing

import (
	"github.com/hidenkeys/receipt/internal/domain/receipt"
)

func newGDIDriver(*GDIDriverConfig) (Driver, error) {
	return nil, receipt.NewPrinterError("the gdi driver is only available on windows", nil)
}
