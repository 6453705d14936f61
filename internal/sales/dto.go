package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest is the payload for creating a sale.
type CreateSaleRequest struct {
	CustomerName   string              `json:"customer_name" validate:"max=100"`
	CustomerPhone  string              `json:"customer_phone" validate:"max=20"`
	PaymentMethod  PaymentMethod       `json:"payment_method" validate:"required"`
	TaxAmount      *decimal.Decimal    `json:"tax_amount,omitempty"`
	DiscountAmount *decimal.Decimal    `json:"discount_amount,omitempty"`
	Notes          string              `json:"notes" validate:"max=500"`
	Items          []CreateSaleItemReq `json:"items" validate:"required,min=1,dive"`
}

// CreateSaleItemReq is one requested line item.
type CreateSaleItemReq struct {
	ProductID       int64            `json:"product_id" validate:"required,gt=0"`
	Quantity        int              `json:"quantity" validate:"required,gte=1"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

// ListSalesRequest narrows sale listings.
type ListSalesRequest struct {
	UserID  *int64
	Page    int
	PerPage int
}

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Window converts the inclusive calendar dates into a half-open timestamp
// range covering full days in the server-local reporting timezone.
func (r DateRange) Window() (time.Time, time.Time) {
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.Local)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	return start, end
}
