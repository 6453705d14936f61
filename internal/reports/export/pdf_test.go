package export

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/reports"
)

func TestBuildHTMLEscapesContent(t *testing.T) {
	summary := reports.SalesReportSummary{
		StartDate:         "2025-03-01",
		EndDate:           "2025-03-31",
		TotalSales:        1,
		TotalRevenue:      decimal.RequireFromString("10"),
		AverageSaleAmount: decimal.RequireFromString("10"),
		TopProducts: []reports.TopProduct{
			{ProductName: "Salt & Pepper <Set>", ProductSKU: "SKU-001", QuantitySold: 1, Revenue: decimal.RequireFromString("10")},
		},
	}

	html := buildHTML(summary)

	require.Contains(t, html, "Salt &amp; Pepper &lt;Set&gt;")
	require.NotContains(t, html, "<Set>")
	require.Contains(t, html, "Sales Report 2025-03-01 to 2025-03-31")
	require.Contains(t, html, "10.00")
}

func TestRenderSalesReport(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.Contains(t, string(body), "Sales Report")
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	exporter := &PDFExporter{Endpoint: server.URL, Client: server.Client()}
	pdf, err := exporter.RenderSalesReport(context.Background(), reports.SalesReportSummary{
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	require.Equal(t, "/forms/chromium/convert/html", gotPath)
}

func TestRenderSalesReportUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	exporter := &PDFExporter{Endpoint: server.URL, Client: server.Client()}
	_, err := exporter.RenderSalesReport(context.Background(), reports.SalesReportSummary{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "gotenberg response 500")
}
