package sales

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/db"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// ErrDuplicateSaleNumber marks a unique-constraint violation on sale_number.
// Two concurrent sale creations can derive the same number; the caller
// retries the whole transaction on this error.
var ErrDuplicateSaleNumber = errors.New("sales: duplicate sale number")

// Repository defines persistence operations outside the creation transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (*Sale, error)
	GetBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)
	List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]Sale, error)
	UpdateStatus(ctx context.Context, id int64, status SaleStatus) error
}

// TxRepository groups the operations that must share the sale-creation
// transaction: product row locking, stock deduction, sale-number read and
// the inserts themselves.
type TxRepository interface {
	LastSaleNumber(ctx context.Context) (string, error)
	GetProductForUpdate(ctx context.Context, productID int64) (catalog.Product, error)
	DeductStock(ctx context.Context, productID int64, quantity int) error
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	InsertItem(ctx context.Context, item SaleItem) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const saleColumns = `id, sale_number, user_id, customer_name, customer_phone,
	subtotal, tax_amount, discount_amount, total_amount, payment_method, status, sale_date, notes`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.SaleNumber, &s.UserID, &s.CustomerName, &s.CustomerPhone,
		&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount,
		&s.PaymentMethod, &s.Status, &s.SaleDate, &s.Notes)
	return s, err
}

func (r *repository) Get(ctx context.Context, id int64) (*Sale, error) {
	sale, err := scanSale(r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachItems(ctx, []*Sale{&sale}); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) GetBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error) {
	sale, err := scanSale(r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE sale_number = $1`, saleNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachItems(ctx, []*Sale{&sale}); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	where := ``
	args := []interface{}{}
	if req.UserID != nil {
		where = ` WHERE user_id = $1`
		args = append(args, *req.UserID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	paging := shared.NewPagination(req.Page, req.PerPage, total)
	query := `SELECT ` + saleColumns + ` FROM sales` + where + ` ORDER BY sale_date DESC, id DESC`
	if req.UserID != nil {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, paging.PerPage, paging.Offset())

	sales, err := r.querySales(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *repository) ListBetween(ctx context.Context, start, end time.Time) ([]Sale, error) {
	const query = `SELECT ` + saleColumns + `
		FROM sales WHERE sale_date >= $1 AND sale_date < $2
		ORDER BY sale_date, id`
	sales, err := r.querySales(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	refs := make([]*Sale, len(sales))
	for i := range sales {
		refs[i] = &sales[i]
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) querySales(ctx context.Context, query string, args ...interface{}) ([]Sale, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *repository) attachItems(ctx context.Context, sales []*Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]int64, len(sales))
	byID := make(map[int64]*Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	const query = `SELECT id, sale_id, product_id, product_name, product_sku, quantity, unit_price, discount_percent, line_total
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, id`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.ProductSKU,
			&item.Quantity, &item.UnitPrice, &item.DiscountPercent, &item.LineTotal); err != nil {
			return err
		}
		if sale := byID[item.SaleID]; sale != nil {
			sale.Items = append(sale.Items, item)
		}
	}
	return rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status SaleStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE sales SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// LastSaleNumber returns the number of the globally last-inserted sale, or
// an empty string when no sales exist yet.
func (r *repository) LastSaleNumber(ctx context.Context) (string, error) {
	var number string
	err := r.db.QueryRow(ctx, `SELECT sale_number FROM sales ORDER BY id DESC LIMIT 1`).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return number, nil
}

// GetProductForUpdate locks the product row for the rest of the transaction.
// Inactive products are returned so the caller can distinguish "missing"
// from "deactivated".
func (r *repository) GetProductForUpdate(ctx context.Context, productID int64) (catalog.Product, error) {
	const query = `SELECT id, sku, name, description, price, stock_quantity, category, image_url, is_active, created_at, updated_at
		FROM products WHERE id = $1 FOR UPDATE`
	var p catalog.Product
	err := r.db.QueryRow(ctx, query, productID).Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.StockQuantity, &p.Category, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Product{}, httpx.ErrNotFound
		}
		return catalog.Product{}, err
	}
	return p, nil
}

// DeductStock subtracts quantity from the product's stock. The guard in the
// WHERE clause keeps stock from ever going negative even if a caller skips
// the availability check.
func (r *repository) DeductStock(ctx context.Context, productID int64, quantity int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		 WHERE id = $1 AND stock_quantity >= $2`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrValidation
	}
	return nil
}

func (r *repository) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	const query = `
		INSERT INTO sales (sale_number, user_id, customer_name, customer_phone,
			subtotal, tax_amount, discount_amount, total_amount, payment_method, status, sale_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		sale.SaleNumber, sale.UserID, sale.CustomerName, sale.CustomerPhone,
		sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.TotalAmount,
		sale.PaymentMethod, sale.Status, sale.SaleDate, sale.Notes,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateSaleNumber
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	const query = `
		INSERT INTO sale_items (sale_id, product_id, product_name, product_sku, quantity, unit_price, discount_percent, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		item.SaleID, item.ProductID, item.ProductName, item.ProductSKU,
		item.Quantity, item.UnitPrice, item.DiscountPercent, item.LineTotal,
	).Scan(&id)
	return id, err
}
