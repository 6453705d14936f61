package reporthttp

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/reports"
	"github.com/meridian-pos/meridian-pos/internal/reports/export"
	"github.com/meridian-pos/meridian-pos/internal/sales"
)

// Handler serves sales report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *reports.Service
	pdf     *export.PDFExporter
}

// NewHandler constructs a Handler. pdf may be nil when no Gotenberg
// endpoint is configured; the PDF route then responds 503.
func NewHandler(logger *slog.Logger, service *reports.Service, pdf *export.PDFExporter) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf}
}

// MountRoutes attaches report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/sales", h.SalesReport)
	r.Get("/reports/sales/csv", h.SalesCSV)
	r.Get("/reports/sales/pdf", h.SalesPDF)
}

func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	summary, err := h.service.SalesReport(r.Context(), dateRange)
	if err != nil {
		h.logger.Error("build sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) SalesCSV(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	records, err := h.service.RangeSales(r.Context(), dateRange)
	if err != nil {
		h.logger.Error("load sales for csv export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSalesCSV(&buf, records); err != nil {
		h.logger.Error("write sales csv", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	filename := fmt.Sprintf("sales-report-%s-%s.csv",
		dateRange.Start.Format("2006-01-02"), dateRange.End.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) SalesPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Export Unavailable", "PDF rendering is not configured")
		return
	}
	dateRange, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	summary, err := h.service.SalesReport(r.Context(), dateRange)
	if err != nil {
		h.logger.Error("build sales report for pdf", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	pdf, err := h.pdf.RenderSalesReport(r.Context(), summary)
	if err != nil {
		h.logger.Error("render sales pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Export Failed", "PDF rendering failed")
		return
	}

	filename := fmt.Sprintf("sales-report-%s-%s.pdf",
		dateRange.Start.Format("2006-01-02"), dateRange.End.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(pdf)
}

func (h *Handler) dateRange(w http.ResponseWriter, r *http.Request) (sales.DateRange, bool) {
	start, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("start_date"), time.Local)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "start_date must be a date in YYYY-MM-DD form")
		return sales.DateRange{}, false
	}
	end, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("end_date"), time.Local)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "end_date must be a date in YYYY-MM-DD form")
		return sales.DateRange{}, false
	}
	if end.Before(start) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "end_date must not be before start_date")
		return sales.DateRange{}, false
	}
	return sales.DateRange{Start: start, End: end}, true
}
