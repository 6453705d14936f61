package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

type memoryRepo struct {
	products map[int64]Product
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]Product)}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	var result []Product
	for _, p := range r.products {
		if p.IsActive {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, httpx.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Create(ctx context.Context, p Product) (Product, error) {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return Product{}, httpx.ErrDuplicate
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.IsActive = true
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, p Product) error {
	existing, ok := r.products[id]
	if !ok {
		return httpx.ErrNotFound
	}
	p.ID = id
	p.IsActive = existing.IsActive
	r.products[id] = p
	return nil
}

func (r *memoryRepo) Deactivate(ctx context.Context, id int64) error {
	p, ok := r.products[id]
	if !ok {
		return httpx.ErrNotFound
	}
	p.IsActive = false
	r.products[id] = p
	return nil
}

func validForm() ProductForm {
	return ProductForm{
		SKU:           "SKU-001",
		Name:          "Espresso Beans",
		Price:         decimal.RequireFromString("12.50"),
		StockQuantity: 40,
		Category:      "Coffee",
	}
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newMemoryRepo())

	created, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.True(t, created.IsActive)
	require.True(t, created.Price.Equal(decimal.RequireFromString("12.50")))
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validForm())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validForm())
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.ErrorContains(t, err, "already exists")
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	form := validForm()
	form.SKU = "  "
	_, err := svc.Create(ctx, form)
	require.ErrorIs(t, err, httpx.ErrValidation)

	form = validForm()
	form.Name = ""
	_, err = svc.Create(ctx, form)
	require.ErrorIs(t, err, httpx.ErrValidation)

	form = validForm()
	form.Price = decimal.RequireFromString("-1")
	_, err = svc.Create(ctx, form)
	require.ErrorIs(t, err, httpx.ErrValidation)

	form = validForm()
	form.StockQuantity = -5
	_, err = svc.Create(ctx, form)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateProductRejectsTakenSKU(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, validForm())
	require.NoError(t, err)

	other := validForm()
	other.SKU = "SKU-002"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	form := validForm()
	form.SKU = "SKU-002"
	_, err = svc.Update(ctx, first.ID, form)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteProductIsSoft(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validForm())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	// The row still exists but the catalog no longer exposes it.
	require.False(t, repo.products[created.ID].IsActive)
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestGetProductInvalidID(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, httpx.ErrValidation)
}
