package receipt

import (
	"encoding/json"
	"testing"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReceiptRequest_ToDomain(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		amount string
	}{
		{"number", `{"guest_name":"Jane Doe","total_amount":250.5}`, "250.5"},
		{"string", `{"guest_name":"Jane Doe","total_amount":"99.999"}`, "99.999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PrintReceiptRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			domain, err := req.ToDomain()
			require.NoError(t, err)
			assert.Equal(t, "Jane Doe", domain.GuestName)
			assert.Equal(t, tt.amount, domain.TotalAmount.String())
		})
	}
}

func TestPrintReceiptRequest_MissingAmount(t *testing.T) {
	req := PrintReceiptRequest{GuestName: "Jane Doe"}
	_, err := req.ToDomain()
	require.Error(t, err)
	assert.True(t, receipt.IsCode(err, receipt.ErrCodeInvalidArgument))
}

func TestPrintReceiptRequest_NonNumericAmount(t *testing.T) {
	var req PrintReceiptRequest
	err := json.Unmarshal([]byte(`{"total_amount":"abc"}`), &req)
	assert.Error(t, err)
}

func TestPrintReceiptRequest_AmountOutOfRange(t *testing.T) {
	for _, body := range []string{
		`{"total_amount":1e2000000}`,
		`{"total_amount":"1e2000000"}`,
		`{"total_amount":"12345678901234567"}`,
	} {
		t.Run(body, func(t *testing.T) {
			var req PrintReceiptRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req))

			_, err := req.ToDomain()
			require.Error(t, err)
			assert.True(t, receipt.IsCode(err, receipt.ErrCodeInvalidArgument))
		})
	}
}
