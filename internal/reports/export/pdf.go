package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-pos/internal/reports"
)

// PDFExporter wraps Gotenberg interactions for report exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

// RenderSalesReport sends the report as HTML to Gotenberg and returns the
// PDF bytes.
func (p *PDFExporter) RenderSalesReport(ctx context.Context, summary reports.SalesReportSummary) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("pdf exporter endpoint not configured")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	html := buildHTML(summary)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "sales-report.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}
	if err := writer.WriteField("waitDelay", "500"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

func buildHTML(summary reports.SalesReportSummary) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;}section{margin-bottom:24px;} .metric-label{text-align:left;}")
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>Sales Report %s to %s</h1>",
		templateEscape(summary.StartDate), templateEscape(summary.EndDate)))

	b.WriteString("<section><h2>Summary</h2><table><tbody>")
	writeCountRow(&b, "Total Sales", summary.TotalSales)
	writeMetricRow(&b, "Total Revenue", summary.TotalRevenue)
	writeMetricRow(&b, "Total Tax", summary.TotalTax)
	writeMetricRow(&b, "Total Discount", summary.TotalDiscount)
	writeMetricRow(&b, "Average Sale Amount", summary.AverageSaleAmount)
	writeCountRow(&b, "Total Items Sold", summary.TotalItemsSold)
	b.WriteString("</tbody></table></section>")

	if len(summary.DailySummaries) > 0 {
		b.WriteString("<section><h2>Daily Sales</h2><table><thead><tr><th>Date</th><th>Sales</th><th>Revenue</th></tr></thead><tbody>")
		for _, day := range summary.DailySummaries {
			b.WriteString("<tr><td class=\"metric-label\">")
			b.WriteString(templateEscape(day.Date))
			b.WriteString("</td><td>")
			b.WriteString(strconv.Itoa(day.SalesCount))
			b.WriteString("</td><td>")
			b.WriteString(day.Revenue.StringFixed(2))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	if len(summary.TopProducts) > 0 {
		b.WriteString("<section><h2>Top Products</h2><table><thead><tr><th>Product</th><th>SKU</th><th>Quantity</th><th>Revenue</th></tr></thead><tbody>")
		for _, product := range summary.TopProducts {
			b.WriteString("<tr><td class=\"metric-label\">")
			b.WriteString(templateEscape(product.ProductName))
			b.WriteString("</td><td class=\"metric-label\">")
			b.WriteString(templateEscape(product.ProductSKU))
			b.WriteString("</td><td>")
			b.WriteString(strconv.Itoa(product.QuantitySold))
			b.WriteString("</td><td>")
			b.WriteString(product.Revenue.StringFixed(2))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	if len(summary.PaymentBreakdown) > 0 {
		b.WriteString("<section><h2>Payment Methods</h2><table><thead><tr><th>Method</th><th>Sales</th><th>Amount</th></tr></thead><tbody>")
		for _, breakdown := range summary.PaymentBreakdown {
			b.WriteString("<tr><td class=\"metric-label\">")
			b.WriteString(templateEscape(string(breakdown.Method)))
			b.WriteString("</td><td>")
			b.WriteString(strconv.Itoa(breakdown.Count))
			b.WriteString("</td><td>")
			b.WriteString(breakdown.Amount.StringFixed(2))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func writeMetricRow(b *strings.Builder, label string, value decimal.Decimal) {
	b.WriteString("<tr><td class=\"metric-label\">")
	b.WriteString(templateEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(value.StringFixed(2))
	b.WriteString("</td></tr>")
}

func writeCountRow(b *strings.Builder, label string, value int) {
	b.WriteString("<tr><td class=\"metric-label\">")
	b.WriteString(templateEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(strconv.Itoa(value))
	b.WriteString("</td></tr>")
}

func templateEscape(v string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
	)
	return replacer.Replace(v)
}
