package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

// maxNumberAttempts bounds the retries after a sale-number collision.
const maxNumberAttempts = 3

// UserLookup resolves the cashier recorded on a sale.
type UserLookup interface {
	Get(ctx context.Context, id int64) (users.User, error)
}

// ReportInvalidator is notified whenever sale data changes so cached
// report aggregates can be discarded.
type ReportInvalidator interface {
	Bump(ctx context.Context) error
}

// Service implements sale creation, cancellation and queries.
type Service struct {
	repo        Repository
	users       UserLookup
	invalidator ReportInvalidator
	log         *slog.Logger
	now         func() time.Time
}

// NewService builds a sales Service. invalidator may be nil.
func NewService(repo Repository, userLookup UserLookup, invalidator ReportInvalidator, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		users:       userLookup,
		invalidator: invalidator,
		log:         log,
		now:         time.Now,
	}
}

// Create records a sale: it locks each product, verifies availability,
// snapshots pricing, deducts stock and assigns the next sale number, all in
// one transaction. A sale-number collision with a concurrent creation rolls
// the transaction back and retries from scratch.
func (s *Service) Create(ctx context.Context, userID int64, req CreateSaleRequest) (*Sale, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: sale must have at least one item", httpx.ErrValidation)
	}
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", httpx.ErrValidation, req.PaymentMethod)
	}

	tax := decimal.Zero
	if req.TaxAmount != nil {
		tax = *req.TaxAmount
	}
	disc := decimal.Zero
	if req.DiscountAmount != nil {
		disc = *req.DiscountAmount
	}
	if tax.IsNegative() || disc.IsNegative() {
		return nil, fmt.Errorf("%w: tax and discount amounts must not be negative", httpx.ErrValidation)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item quantity must be at least 1", httpx.ErrValidation)
		}
		if item.DiscountPercent != nil &&
			(item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(decimal.NewFromInt(100))) {
			return nil, fmt.Errorf("%w: discount percent must be between 0 and 100", httpx.ErrValidation)
		}
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", httpx.ErrNotFound, userID)
		}
		return nil, err
	}

	var sale *Sale
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		sale, err = s.createOnce(ctx, user.ID, req, tax, disc)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateSaleNumber) {
			return nil, err
		}
		s.log.Warn("sale number collision, retrying", "attempt", attempt)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: could not allocate a sale number", httpx.ErrDuplicate)
	}

	s.invalidate(ctx)
	s.log.Info("sale created",
		"sale_number", sale.SaleNumber, "user_id", userID,
		"total", sale.TotalAmount.String(), "items", len(sale.Items))
	return sale, nil
}

func (s *Service) createOnce(ctx context.Context, userID int64, req CreateSaleRequest, tax, disc decimal.Decimal) (*Sale, error) {
	var created Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		// Products are locked once and their remaining stock tracked
		// locally, so two lines for the same product draw from the same
		// pool instead of each passing the check independently.
		locked := make(map[int64]catalog.Product)
		remaining := make(map[int64]int)

		items := make([]SaleItem, 0, len(req.Items))
		subtotal := decimal.Zero
		for _, line := range req.Items {
			product, ok := locked[line.ProductID]
			if !ok {
				var err error
				product, err = tx.GetProductForUpdate(ctx, line.ProductID)
				if err != nil {
					if errors.Is(err, httpx.ErrNotFound) {
						return fmt.Errorf("%w: product %d", httpx.ErrNotFound, line.ProductID)
					}
					return err
				}
				locked[line.ProductID] = product
				remaining[line.ProductID] = product.StockQuantity
			}
			if !product.IsActive {
				return fmt.Errorf("%w: product %q is not available", httpx.ErrValidation, product.Name)
			}
			if remaining[line.ProductID] < line.Quantity {
				return fmt.Errorf("%w: insufficient stock for product %q (available %d, requested %d)",
					httpx.ErrValidation, product.Name, remaining[line.ProductID], line.Quantity)
			}
			remaining[line.ProductID] -= line.Quantity

			discountPercent := decimal.Zero
			if line.DiscountPercent != nil {
				discountPercent = *line.DiscountPercent
			}
			lineTotal := calculateLineTotal(product.Price, line.Quantity, discountPercent)

			items = append(items, SaleItem{
				ProductID:       product.ID,
				ProductName:     product.Name,
				ProductSKU:      product.SKU,
				Quantity:        line.Quantity,
				UnitPrice:       product.Price,
				DiscountPercent: discountPercent,
				LineTotal:       lineTotal,
			})
			subtotal = subtotal.Add(lineTotal)

			if err := tx.DeductStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("deduct stock for product %d: %w", line.ProductID, err)
			}
		}

		last, err := tx.LastSaleNumber(ctx)
		if err != nil {
			return err
		}
		now := s.now()

		created = Sale{
			SaleNumber:     nextSaleNumber(last, now),
			UserID:         userID,
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			Subtotal:       subtotal,
			TaxAmount:      tax,
			DiscountAmount: disc,
			TotalAmount:    subtotal.Add(tax).Sub(disc),
			PaymentMethod:  req.PaymentMethod,
			Status:         StatusCompleted,
			SaleDate:       now,
			Notes:          req.Notes,
		}
		saleID, err := tx.InsertSale(ctx, created)
		if err != nil {
			return err
		}
		created.ID = saleID

		for i := range items {
			items[i].SaleID = saleID
			itemID, err := tx.InsertItem(ctx, items[i])
			if err != nil {
				return err
			}
			items[i].ID = itemID
		}
		created.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// calculateLineTotal prices one line: unit price times quantity, reduced by
// the percentage discount, rounded half-up to cents.
func calculateLineTotal(unitPrice decimal.Decimal, quantity int, discountPercent decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if discountPercent.IsZero() {
		return gross.Round(2)
	}
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(decimal.NewFromInt(100)))
	return gross.Mul(factor).Round(2)
}

// Cancel marks a sale as cancelled. Cancelling does not restock the sold
// items; stock corrections are a manual catalog operation.
func (s *Service) Cancel(ctx context.Context, id int64) (*Sale, error) {
	sale, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: sale %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	if sale.Status == StatusCancelled {
		return nil, fmt.Errorf("%w: sale %s is already cancelled", httpx.ErrValidation, sale.SaleNumber)
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	sale.Status = StatusCancelled

	s.invalidate(ctx)
	s.log.Info("sale cancelled", "sale_number", sale.SaleNumber)
	return sale, nil
}

// Get returns a sale with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	sale, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: sale %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return sale, nil
}

// GetBySaleNumber returns a sale looked up by its human-readable number.
func (s *Service) GetBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error) {
	sale, err := s.repo.GetBySaleNumber(ctx, saleNumber)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: sale %s", httpx.ErrNotFound, saleNumber)
		}
		return nil, err
	}
	return sale, nil
}

// List returns a page of sales, newest first.
func (s *Service) List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	return s.repo.List(ctx, req)
}

// ListBetween returns all sales whose sale date falls in the given calendar
// range, items included, oldest first.
func (s *Service) ListBetween(ctx context.Context, r DateRange) ([]Sale, error) {
	if r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: end date before start date", httpx.ErrValidation)
	}
	start, end := r.Window()
	return s.repo.ListBetween(ctx, start, end)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil {
		s.log.Warn("report cache invalidation failed", "error", err)
	}
}
