package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/sales"
)

func TestWriteSalesCSV(t *testing.T) {
	cancelled := sales.Sale{
		SaleNumber:     "SL202503140002",
		CustomerName:   "Ana",
		Subtotal:       decimal.RequireFromString("20"),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.RequireFromString("20"),
		PaymentMethod:  sales.PaymentCard,
		Status:         sales.StatusCancelled,
		SaleDate:       time.Date(2025, 3, 14, 16, 45, 9, 0, time.Local),
		Items:          []sales.SaleItem{{Quantity: 4}},
	}
	records := []sales.Sale{
		{
			SaleNumber:     "SL202503140001",
			Subtotal:       decimal.RequireFromString("30.5"),
			TaxAmount:      decimal.RequireFromString("1"),
			DiscountAmount: decimal.RequireFromString("0.5"),
			TotalAmount:    decimal.RequireFromString("31"),
			PaymentMethod:  sales.PaymentCash,
			Status:         sales.StatusCompleted,
			SaleDate:       time.Date(2025, 3, 14, 10, 30, 0, 0, time.Local),
			Items:          []sales.SaleItem{{Quantity: 2}, {Quantity: 3}},
		},
		cancelled,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, []string{"Sale Number", "Date", "Customer", "Items", "Subtotal", "Tax", "Discount", "Total", "Payment Method", "Status"}, rows[0])
	// Two lines with quantities 2 and 3 export as 2 items, not 5 units.
	require.Equal(t, []string{"SL202503140001", "2025-03-14 10:30:00", "N/A", "2", "30.50", "1.00", "0.50", "31.00", "CASH", "COMPLETED"}, rows[1])

	// Cancelled sales stay in the export.
	require.Equal(t, "SL202503140002", rows[2][0])
	require.Equal(t, "Ana", rows[2][2])
	require.Equal(t, "CANCELLED", rows[2][9])
}

func TestWriteSalesCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
