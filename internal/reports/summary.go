// Package reports aggregates sale records into period summaries and serves
// them over HTTP, with CSV and PDF export.
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-pos/internal/sales"
)

// topProductLimit caps the best-seller list in a report.
const topProductLimit = 10

// SalesReportSummary is the aggregate view of sales over a date range.
// Cancelled and refunded sales are excluded from every aggregate; only the
// CSV export lists them.
type SalesReportSummary struct {
	StartDate         string             `json:"start_date"`
	EndDate           string             `json:"end_date"`
	TotalSales        int                `json:"total_sales"`
	TotalRevenue      decimal.Decimal    `json:"total_revenue"`
	TotalTax          decimal.Decimal    `json:"total_tax"`
	TotalDiscount     decimal.Decimal    `json:"total_discount"`
	AverageSaleAmount decimal.Decimal    `json:"average_sale_amount"`
	TotalItemsSold    int                `json:"total_items_sold"`
	DailySummaries    []DailySummary     `json:"daily_summaries"`
	TopProducts       []TopProduct       `json:"top_products"`
	PaymentBreakdown  []PaymentBreakdown `json:"payment_breakdown"`
}

// DailySummary is one calendar day's sales activity.
type DailySummary struct {
	Date       string          `json:"date"`
	SalesCount int             `json:"sales_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// TopProduct is a best-selling product over the report range.
type TopProduct struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// PaymentBreakdown groups completed sales by payment method.
type PaymentBreakdown struct {
	Method sales.PaymentMethod `json:"method"`
	Count  int                 `json:"count"`
	Amount decimal.Decimal     `json:"amount"`
}

// BuildSummary aggregates the given sales into a report summary. The input
// may contain sales in any status; only COMPLETED ones count.
func BuildSummary(all []sales.Sale, r sales.DateRange) SalesReportSummary {
	summary := SalesReportSummary{
		StartDate:         r.Start.Format("2006-01-02"),
		EndDate:           r.End.Format("2006-01-02"),
		TotalRevenue:      decimal.Zero,
		TotalTax:          decimal.Zero,
		TotalDiscount:     decimal.Zero,
		AverageSaleAmount: decimal.Zero,
		DailySummaries:    []DailySummary{},
		TopProducts:       []TopProduct{},
		PaymentBreakdown:  []PaymentBreakdown{},
	}

	completed := make([]sales.Sale, 0, len(all))
	for _, sale := range all {
		if sale.Status == sales.StatusCompleted {
			completed = append(completed, sale)
		}
	}

	byDay := make(map[string]*DailySummary)
	byProduct := make(map[int64]*TopProduct)
	productOrder := []int64{}
	byMethod := make(map[sales.PaymentMethod]*PaymentBreakdown)

	for _, sale := range completed {
		summary.TotalSales++
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.TotalAmount)
		summary.TotalTax = summary.TotalTax.Add(sale.TaxAmount)
		summary.TotalDiscount = summary.TotalDiscount.Add(sale.DiscountAmount)

		day := sale.SaleDate.In(time.Local).Format("2006-01-02")
		daily := byDay[day]
		if daily == nil {
			daily = &DailySummary{Date: day, Revenue: decimal.Zero}
			byDay[day] = daily
		}
		daily.SalesCount++
		daily.Revenue = daily.Revenue.Add(sale.TotalAmount)

		breakdown := byMethod[sale.PaymentMethod]
		if breakdown == nil {
			breakdown = &PaymentBreakdown{Method: sale.PaymentMethod, Amount: decimal.Zero}
			byMethod[sale.PaymentMethod] = breakdown
		}
		breakdown.Count++
		breakdown.Amount = breakdown.Amount.Add(sale.TotalAmount)

		for _, item := range sale.Items {
			summary.TotalItemsSold += item.Quantity
			top := byProduct[item.ProductID]
			if top == nil {
				top = &TopProduct{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					ProductSKU:  item.ProductSKU,
					Revenue:     decimal.Zero,
				}
				byProduct[item.ProductID] = top
				productOrder = append(productOrder, item.ProductID)
			}
			top.QuantitySold += item.Quantity
			top.Revenue = top.Revenue.Add(item.LineTotal)
		}
	}

	if summary.TotalSales > 0 {
		summary.AverageSaleAmount = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalSales))).Round(2)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		summary.DailySummaries = append(summary.DailySummaries, *byDay[day])
	}

	// First-appearance order breaks quantity ties, keeping the ranking
	// stable across rebuilds of the same data.
	products := make([]TopProduct, 0, len(productOrder))
	for _, id := range productOrder {
		products = append(products, *byProduct[id])
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].QuantitySold > products[j].QuantitySold
	})
	if len(products) > topProductLimit {
		products = products[:topProductLimit]
	}
	summary.TopProducts = products

	for _, method := range sales.PaymentMethods {
		if breakdown := byMethod[method]; breakdown != nil {
			summary.PaymentBreakdown = append(summary.PaymentBreakdown, *breakdown)
		}
	}

	return summary
}
