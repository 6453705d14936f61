package reports

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/sales"
)

func testRange() sales.DateRange {
	return sales.DateRange{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local),
	}
}

func completedSale(day int, total string, method sales.PaymentMethod, items ...sales.SaleItem) sales.Sale {
	return sales.Sale{
		Status:        sales.StatusCompleted,
		TotalAmount:   decimal.RequireFromString(total),
		PaymentMethod: method,
		SaleDate:      time.Date(2025, 3, day, 12, 0, 0, 0, time.Local),
		Items:         items,
	}
}

func item(productID int64, qty int, lineTotal string) sales.SaleItem {
	return sales.SaleItem{
		ProductID:   productID,
		ProductName: fmt.Sprintf("Product %d", productID),
		ProductSKU:  fmt.Sprintf("SKU-%03d", productID),
		Quantity:    qty,
		LineTotal:   decimal.RequireFromString(lineTotal),
	}
}

func TestBuildSummaryExcludesCancelled(t *testing.T) {
	cancelled := completedSale(5, "999.00", sales.PaymentCash, item(1, 50, "999.00"))
	cancelled.Status = sales.StatusCancelled

	records := []sales.Sale{
		completedSale(5, "10.00", sales.PaymentCash, item(1, 1, "10.00")),
		completedSale(6, "20.00", sales.PaymentCard, item(1, 2, "20.00")),
		cancelled,
	}

	summary := BuildSummary(records, testRange())

	require.Equal(t, 2, summary.TotalSales)
	require.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("30.00")), "revenue %s", summary.TotalRevenue)
	require.True(t, summary.AverageSaleAmount.Equal(decimal.RequireFromString("15.00")))
	require.Equal(t, 3, summary.TotalItemsSold)
}

func TestBuildSummaryTaxAndDiscountTotals(t *testing.T) {
	first := completedSale(10, "25.00", sales.PaymentCash)
	first.TaxAmount = decimal.RequireFromString("1.00")
	first.DiscountAmount = decimal.RequireFromString("0.50")
	second := completedSale(11, "26.00", sales.PaymentCard)
	second.TaxAmount = decimal.RequireFromString("2.00")
	second.DiscountAmount = decimal.RequireFromString("1.00")
	cancelled := completedSale(12, "99.00", sales.PaymentCash)
	cancelled.TaxAmount = decimal.RequireFromString("9.00")
	cancelled.DiscountAmount = decimal.RequireFromString("9.00")
	cancelled.Status = sales.StatusCancelled

	summary := BuildSummary([]sales.Sale{first, second, cancelled}, testRange())

	require.True(t, summary.TotalTax.Equal(decimal.RequireFromString("3.00")), "tax %s", summary.TotalTax)
	require.True(t, summary.TotalDiscount.Equal(decimal.RequireFromString("1.50")), "discount %s", summary.TotalDiscount)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"total_tax":"3"`)
	require.Contains(t, string(raw), `"total_discount":"1.5"`)
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil, testRange())

	require.Equal(t, 0, summary.TotalSales)
	require.True(t, summary.TotalRevenue.IsZero())
	require.True(t, summary.AverageSaleAmount.IsZero())
	require.Empty(t, summary.DailySummaries)
	require.Empty(t, summary.TopProducts)
	require.Empty(t, summary.PaymentBreakdown)
	require.Equal(t, "2025-03-01", summary.StartDate)
	require.Equal(t, "2025-03-31", summary.EndDate)
}

func TestBuildSummaryAverageRounding(t *testing.T) {
	records := []sales.Sale{
		completedSale(1, "10.00", sales.PaymentCash),
		completedSale(2, "10.00", sales.PaymentCash),
		completedSale(3, "10.01", sales.PaymentCash),
	}

	summary := BuildSummary(records, testRange())

	// 30.01 / 3 = 10.003... rounds to 10.00
	require.True(t, summary.AverageSaleAmount.Equal(decimal.RequireFromString("10.00")),
		"average %s", summary.AverageSaleAmount)
}

func TestBuildSummaryDailyOrder(t *testing.T) {
	records := []sales.Sale{
		completedSale(20, "5.00", sales.PaymentCash),
		completedSale(3, "7.00", sales.PaymentCash),
		completedSale(20, "2.00", sales.PaymentCash),
		completedSale(11, "4.00", sales.PaymentCash),
	}

	summary := BuildSummary(records, testRange())

	require.Len(t, summary.DailySummaries, 3)
	require.Equal(t, "2025-03-03", summary.DailySummaries[0].Date)
	require.Equal(t, "2025-03-11", summary.DailySummaries[1].Date)
	require.Equal(t, "2025-03-20", summary.DailySummaries[2].Date)
	require.Equal(t, 2, summary.DailySummaries[2].SalesCount)
	require.True(t, summary.DailySummaries[2].Revenue.Equal(decimal.RequireFromString("7.00")))
}

func TestBuildSummaryTopProducts(t *testing.T) {
	var records []sales.Sale
	// 12 products, product i sells i units.
	for i := int64(1); i <= 12; i++ {
		records = append(records, completedSale(int(i), "10.00", sales.PaymentCash,
			item(i, int(i), "10.00")))
	}

	summary := BuildSummary(records, testRange())

	require.Len(t, summary.TopProducts, 10)
	require.Equal(t, int64(12), summary.TopProducts[0].ProductID)
	require.Equal(t, 12, summary.TopProducts[0].QuantitySold)
	require.Equal(t, int64(3), summary.TopProducts[9].ProductID)
}

func TestBuildSummaryTopProductTiesAreStable(t *testing.T) {
	records := []sales.Sale{
		completedSale(1, "10.00", sales.PaymentCash, item(7, 5, "10.00")),
		completedSale(2, "10.00", sales.PaymentCash, item(3, 5, "10.00")),
		completedSale(3, "10.00", sales.PaymentCash, item(9, 5, "10.00")),
	}

	first := BuildSummary(records, testRange())
	second := BuildSummary(records, testRange())

	require.Equal(t, first.TopProducts, second.TopProducts)
	require.Equal(t, int64(7), first.TopProducts[0].ProductID)
	require.Equal(t, int64(3), first.TopProducts[1].ProductID)
	require.Equal(t, int64(9), first.TopProducts[2].ProductID)
}

func TestBuildSummaryPaymentBreakdownOrder(t *testing.T) {
	records := []sales.Sale{
		completedSale(1, "5.00", sales.PaymentOther),
		completedSale(2, "10.00", sales.PaymentCash),
		completedSale(3, "15.00", sales.PaymentOther),
		completedSale(4, "20.00", sales.PaymentBankTransfer),
	}

	summary := BuildSummary(records, testRange())

	require.Len(t, summary.PaymentBreakdown, 3)
	require.Equal(t, sales.PaymentCash, summary.PaymentBreakdown[0].Method)
	require.Equal(t, sales.PaymentBankTransfer, summary.PaymentBreakdown[1].Method)
	require.Equal(t, sales.PaymentOther, summary.PaymentBreakdown[2].Method)
	require.Equal(t, 2, summary.PaymentBreakdown[2].Count)
	require.True(t, summary.PaymentBreakdown[2].Amount.Equal(decimal.RequireFromString("20.00")))
}
