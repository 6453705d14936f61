package catalog

import "github.com/shopspring/decimal"

// ProductForm is the create/update payload for a product.
type ProductForm struct {
	SKU           string          `json:"sku" validate:"required,max=50"`
	Name          string          `json:"name" validate:"required,max=100"`
	Description   string          `json:"description" validate:"max=500"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	Category      string          `json:"category" validate:"max=50"`
	ImageURL      string          `json:"image_url" validate:"max=255"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search  string
	Page    int
	PerPage int
}
