package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item available for sale. Products are never hard
// deleted; IsActive=false removes them from catalog listings and new sales
// while keeping historical sale items valid.
type Product struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      string          `json:"category,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InStock reports whether the product has stock available.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
