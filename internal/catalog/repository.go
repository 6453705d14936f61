package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

const uniqueViolationCode = "23505"

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	Deactivate(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, sku, name, description, price, stock_quantity, category, image_url, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.StockQuantity,
		&p.Category, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE is_active = TRUE`
	args := []interface{}{}
	if filters.Search != "" {
		where += ` AND (name ILIKE $1 OR sku ILIKE $1 OR category ILIKE $1)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name`
	if filters.PerPage > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filters.PerPage, (page-1)*filters.PerPage)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, httpx.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	return exists, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	const query = `
		INSERT INTO products (sku, name, description, price, stock_quantity, category, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $8)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		product.SKU, product.Name, product.Description, product.Price,
		product.StockQuantity, product.Category, product.ImageURL, now,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Product{}, httpx.ErrDuplicate
		}
		return Product{}, err
	}
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	const query = `
		UPDATE products
		SET sku = $1, name = $2, description = $3, price = $4, stock_quantity = $5,
		    category = $6, image_url = $7, updated_at = $8
		WHERE id = $9`
	tag, err := r.db.Exec(ctx, query,
		product.SKU, product.Name, product.Description, product.Price,
		product.StockQuantity, product.Category, product.ImageURL, time.Now(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return httpx.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
