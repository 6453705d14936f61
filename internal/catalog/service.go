package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Service applies catalog business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns active products matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

// Get returns an active product. Soft-deleted products are reported as
// missing, matching what catalog consumers are allowed to see.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !product.IsActive {
		return Product{}, fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	return product, nil
}

// Create adds a new product to the catalog.
func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	if err := validateForm(form); err != nil {
		return Product{}, err
	}
	exists, err := s.repo.ExistsBySKU(ctx, form.SKU)
	if err != nil {
		return Product{}, err
	}
	if exists {
		return Product{}, fmt.Errorf("%w: product with SKU %q already exists", httpx.ErrValidation, form.SKU)
	}
	product, err := s.repo.Create(ctx, productFromForm(form))
	if err != nil {
		// The EXISTS check above can race with a concurrent insert.
		if errors.Is(err, httpx.ErrDuplicate) {
			return Product{}, fmt.Errorf("%w: product with SKU %q already exists", httpx.ErrValidation, form.SKU)
		}
		return Product{}, err
	}
	return product, nil
}

// Update replaces product fields. Changing the SKU to one held by another
// product is rejected.
func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (Product, error) {
	if err := validateForm(form); err != nil {
		return Product{}, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if existing.SKU != form.SKU {
		exists, err := s.repo.ExistsBySKU(ctx, form.SKU)
		if err != nil {
			return Product{}, err
		}
		if exists {
			return Product{}, fmt.Errorf("%w: product with SKU %q already exists", httpx.ErrValidation, form.SKU)
		}
	}
	if err := s.repo.Update(ctx, id, productFromForm(form)); err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return Product{}, fmt.Errorf("%w: product with SKU %q already exists", httpx.ErrValidation, form.SKU)
		}
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete soft-deletes a product. Historical sale items keep referencing it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

func validateForm(form ProductForm) error {
	if strings.TrimSpace(form.SKU) == "" {
		return fmt.Errorf("%w: product sku is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	}
	if form.Price.IsNegative() {
		return fmt.Errorf("%w: product price must not be negative", httpx.ErrValidation)
	}
	if form.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity must not be negative", httpx.ErrValidation)
	}
	return nil
}

func productFromForm(form ProductForm) Product {
	return Product{
		SKU:           form.SKU,
		Name:          form.Name,
		Description:   form.Description,
		Price:         form.Price,
		StockQuantity: form.StockQuantity,
		Category:      form.Category,
		ImageURL:      form.ImageURL,
	}
}
