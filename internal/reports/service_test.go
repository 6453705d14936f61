package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/sales"
)

type fakeSource struct {
	records []sales.Sale
	calls   int
}

func (f *fakeSource) ListBetween(ctx context.Context, r sales.DateRange) ([]sales.Sale, error) {
	f.calls++
	return f.records, nil
}

func TestSalesReportUsesCache(t *testing.T) {
	source := &fakeSource{records: []sales.Sale{
		{
			Status:        sales.StatusCompleted,
			TotalAmount:   decimal.RequireFromString("25.00"),
			PaymentMethod: sales.PaymentCash,
			SaleDate:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local),
		},
	}}
	cache := newTestCache(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(source, cache, logger)

	r := sales.DateRange{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local),
	}
	ctx := context.Background()

	first, err := svc.SalesReport(ctx, r)
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalSales)
	require.Equal(t, 1, source.calls)

	second, err := svc.SalesReport(ctx, r)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, source.calls, "second request should come from cache")

	require.NoError(t, cache.Bump(ctx))

	_, err = svc.SalesReport(ctx, r)
	require.NoError(t, err)
	require.Equal(t, 2, source.calls, "bump must force a rebuild")
}

func TestRangeSalesKeepsEveryStatus(t *testing.T) {
	source := &fakeSource{records: []sales.Sale{
		{Status: sales.StatusCompleted},
		{Status: sales.StatusCancelled},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(source, nil, logger)

	records, err := svc.RangeSales(context.Background(), sales.DateRange{})
	require.NoError(t, err)
	require.Len(t, records, 2)
}
