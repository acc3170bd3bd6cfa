package receipt

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "250.5", want: "250.5"},
		{input: "150", want: "150"},
		{input: " 99.999 ", want: "99.999"},
		{input: "1.5e2", want: "150"},
		{input: "-10.25", want: "-10.25"},
		{input: "", wantErr: true},
		{input: "   ", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "12,50", wantErr: true},
		{input: "$100", wantErr: true},
		{input: "999999999999999.99", want: "999999999999999.99"},
		{input: "1e14", want: "100000000000000"},
		{input: "1e15", wantErr: true},
		{input: "1234567890123456", wantErr: true},
		{input: "1e2000000", wantErr: true},
		{input: "-1e2000000", wantErr: true},
		{input: "1e-2000000", wantErr: true},
		{input: "0e2000000", wantErr: true},
		{input: "1" + strings.Repeat("0", 70), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsCode(err, ErrCodeInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNewRequest(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		req, err := NewRequest("LabelPrinter", "Jane Doe", "Deluxe", "01/01/2025", "01/03/2025", "250.5")
		require.NoError(t, err)

		assert.Equal(t, "LabelPrinter", req.PrinterName)
		assert.Equal(t, "Jane Doe", req.GuestName)
		assert.Equal(t, "Deluxe", req.RoomType)
		assert.Equal(t, "01/01/2025", req.CheckInDate)
		assert.Equal(t, "01/03/2025", req.CheckOutDate)
		assert.Equal(t, "250.50", FormatAmount(req.TotalAmount))
	})

	t.Run("text fields are not validated", func(t *testing.T) {
		req, err := NewRequest("", "", "", "not a date", "", "0")
		require.NoError(t, err)
		assert.Equal(t, "not a date", req.CheckInDate)
	})

	t.Run("bad amount", func(t *testing.T) {
		req, err := NewRequest("p", "g", "r", "i", "o", "two hundred")
		assert.Nil(t, req)
		assert.True(t, IsCode(err, ErrCodeInvalidArgument))
	})
}

func TestValidateAmount(t *testing.T) {
	t.Run("in range", func(t *testing.T) {
		assert.NoError(t, ValidateAmount(decimal.Zero))
		assert.NoError(t, ValidateAmount(decimal.RequireFromString("250.50")))
		assert.NoError(t, ValidateAmount(decimal.RequireFromString("-999999999999999")))
	})

	t.Run("huge exponent is rejected without expansion", func(t *testing.T) {
		start := time.Now()
		err := ValidateAmount(decimal.New(1, 2_000_000_000))
		assert.True(t, IsCode(err, ErrCodeInvalidArgument))
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("huge coefficient", func(t *testing.T) {
		coef := new(big.Int).Exp(big.NewInt(10), big.NewInt(5000), nil)
		err := ValidateAmount(decimal.NewFromBigInt(coef, -60))
		assert.True(t, IsCode(err, ErrCodeInvalidArgument))
	})

	t.Run("too many integer digits", func(t *testing.T) {
		err := ValidateAmount(decimal.New(12345, 12))
		assert.True(t, IsCode(err, ErrCodeInvalidArgument))
	})
}
