package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the supported payment methods.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCard         PaymentMethod = "CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentOther        PaymentMethod = "OTHER"
)

// PaymentMethods lists all methods in canonical declaration order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentBankTransfer, PaymentOther}

// Valid reports whether the payment method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// SaleStatus enumerates the lifecycle states of a sale.
type SaleStatus string

const (
	StatusPending   SaleStatus = "PENDING"
	StatusCompleted SaleStatus = "COMPLETED"
	StatusCancelled SaleStatus = "CANCELLED"
	StatusRefunded  SaleStatus = "REFUNDED"
)

// Sale represents a completed point-of-sale transaction. A sale owns its
// items; they are created together in one transaction and the items never
// change afterwards. Only the status transitions later.
type Sale struct {
	ID             int64           `json:"id"`
	SaleNumber     string          `json:"sale_number"`
	UserID         int64           `json:"user_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Status         SaleStatus      `json:"status"`
	SaleDate       time.Time       `json:"sale_date"`
	Notes          string          `json:"notes,omitempty"`
	Items          []SaleItem      `json:"items,omitempty"`
}

// SaleItem is one line of a sale. Product name, sku and unit price are
// snapshotted at sale time so later catalog edits do not rewrite history.
type SaleItem struct {
	ID              int64           `json:"id"`
	SaleID          int64           `json:"sale_id"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductSKU      string          `json:"product_sku"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}
