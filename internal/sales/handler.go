package sales

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Handler serves sale endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches sale routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sales", h.Create)
	r.Get("/sales", h.List)
	r.Get("/sales/range", h.ListRange)
	r.Get("/sales/number/{saleNumber}", h.ShowByNumber)
	r.Get("/sales/{id}", h.Show)
	r.Post("/sales/{id}/cancel", h.Cancel)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sale, err := h.service.Create(r.Context(), identity.UserID, req)
	if err != nil {
		h.logger.Error("create sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

type listSalesResponse struct {
	Sales      []Sale            `json:"sales"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 20
	}
	req := ListSalesRequest{Page: page, PerPage: perPage}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user_id")
			return
		}
		req.UserID = &userID
	}

	sales, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if sales == nil {
		sales = []Sale{}
	}
	httpx.JSON(w, http.StatusOK, listSalesResponse{
		Sales:      sales,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) ListRange(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	sales, err := h.service.ListBetween(r.Context(), dateRange)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if sales == nil {
		sales = []Sale{}
	}
	httpx.JSON(w, http.StatusOK, sales)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseSaleID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) ShowByNumber(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetBySaleNumber(r.Context(), chi.URLParam(r, "saleNumber"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseSaleID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	sale, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func parseSaleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseDateRange reads start_date and end_date query parameters in
// YYYY-MM-DD form.
func parseDateRange(r *http.Request) (DateRange, error) {
	start, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("start_date"), time.Local)
	if err != nil {
		return DateRange{}, errInvalidDate("start_date")
	}
	end, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("end_date"), time.Local)
	if err != nil {
		return DateRange{}, errInvalidDate("end_date")
	}
	return DateRange{Start: start, End: end}, nil
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return string(e) + " must be a date in YYYY-MM-DD form"
}
