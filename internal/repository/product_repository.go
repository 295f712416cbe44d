package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-service/internal/models"
)

type productRepo struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepo{db: db}
}

// productColumns deliberately leaves out the photo payload; photo bytes
// are served only through GetPhoto so list responses stay small.
const productColumns = `
	product_id,
	name,
	slug,
	description,
	price,
	category_id,
	quantity,
	shipping,
	created_at,
	updated_at`

func scanProduct(row pgx.Row, p *models.Product) error {
	return row.Scan(
		&p.ProductID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.CategoryID,
		&p.Quantity,
		&p.Shipping,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.Slug == "" {
		return fmt.Errorf("%w: product slug required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product price cannot be negative", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: product quantity cannot be negative", ErrInvalidInput)
	}
	if p.CategoryID <= 0 {
		return fmt.Errorf("%w: category required", ErrInvalidInput)
	}

	sql := `
		INSERT INTO products (
			name,
			slug,
			description,
			price,
			category_id,
			quantity,
			shipping,
			photo,
			photo_type,
			created_at,
			updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING product_id
	`

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Slug,
		p.Description,
		p.Price,
		p.CategoryID,
		p.Quantity,
		p.Shipping,
		p.Photo,
		p.PhotoType,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ProductID)
	if err != nil {
		return wrapProductWriteError(err, "create")
	}

	return nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	if p.ProductID <= 0 {
		return fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: product price cannot be negative", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: product quantity cannot be negative", ErrInvalidInput)
	}

	// Photo columns are only touched when a new photo was uploaded, so
	// an update without a file keeps the stored image.
	sql := `
	UPDATE products
	SET
		name = $1,
		slug = $2,
		description = $3,
		price = $4,
		category_id = $5,
		quantity = $6,
		shipping = $7,
		photo = COALESCE($8, photo),
		photo_type = CASE WHEN $8 IS NULL THEN photo_type ELSE $9 END,
		updated_at = $10
	WHERE product_id = $11
	RETURNING updated_at
	`

	now := time.Now()

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Slug,
		p.Description,
		p.Price,
		p.CategoryID,
		p.Quantity,
		p.Shipping,
		p.Photo,
		p.PhotoType,
		now,
		p.ProductID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return wrapProductWriteError(err, "update")
	}

	return nil
}

func wrapProductWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: product slug already exists", ErrDuplicate)
		case "23503":
			return fmt.Errorf("%w: category does not exist", ErrInvalidInput)
		}
	}
	return fmt.Errorf("failed to %s product: %w", op, err)
}

func (r *productRepo) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	sql := `DELETE FROM products WHERE product_id = $1`

	result, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT` + productColumns + `
	FROM products WHERE product_id = $1`

	var product models.Product

	if err := scanProduct(r.db.QueryRow(ctx, sql, id), &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepo) GetAll(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	sql := `SELECT` + productColumns + `
	FROM products
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}

	return collectProducts(rows)
}

func (r *productRepo) GetPage(ctx context.Context, page, perPage int) ([]models.Product, error) {
	if page <= 0 {
		return nil, fmt.Errorf("%w: page must be positive", ErrInvalidInput)
	}
	if perPage <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrInvalidInput)
	}

	sql := `SELECT` + productColumns + `
	FROM products
	ORDER BY created_at DESC
	OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, sql, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to get product page %d: %w", page, err)
	}

	return collectProducts(rows)
}

func (r *productRepo) Count(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

func (r *productRepo) Filter(ctx context.Context, categoryIDs []int, priceRange []float64) ([]models.Product, error) {
	if len(priceRange) != 0 && len(priceRange) != 2 {
		return nil, fmt.Errorf("%w: price range must be [min, max]", ErrInvalidInput)
	}
	if len(priceRange) == 2 && priceRange[0] > priceRange[1] {
		return nil, fmt.Errorf("%w: price range min exceeds max", ErrInvalidInput)
	}

	var (
		where []string
		args  []any
	)

	if len(categoryIDs) > 0 {
		args = append(args, categoryIDs)
		where = append(where, fmt.Sprintf("category_id = ANY($%d::int[])", len(args)))
	}
	if len(priceRange) == 2 {
		// Inclusive at both bounds.
		args = append(args, priceRange[0], priceRange[1])
		where = append(where, fmt.Sprintf("price >= $%d AND price <= $%d", len(args)-1, len(args)))
	}

	sql := `SELECT` + productColumns + `
	FROM products`
	if len(where) > 0 {
		sql += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	sql += "\n\tORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}

	return collectProducts(rows)
}

// escapeLike neutralizes LIKE metacharacters so the keyword matches as
// plain text.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *productRepo) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword cannot be empty", ErrInvalidInput)
	}

	sql := `SELECT` + productColumns + `
	FROM products
	WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
	ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, sql, escapeLike(keyword))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return collectProducts(rows)
}

func (r *productRepo) GetRelated(ctx context.Context, productID, categoryID, limit int) ([]models.Product, error) {
	if productID <= 0 || categoryID <= 0 {
		return nil, fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	sql := `SELECT` + productColumns + `
	FROM products
	WHERE category_id = $1 AND product_id <> $2
	ORDER BY created_at DESC
	LIMIT $3`

	rows, err := r.db.Query(ctx, sql, categoryID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}

	return collectProducts(rows)
}

func (r *productRepo) GetByCategory(ctx context.Context, categoryID int) ([]models.Product, error) {
	if categoryID <= 0 {
		return nil, fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT` + productColumns + `
	FROM products
	WHERE category_id = $1
	ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, sql, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by category %d: %w", categoryID, err)
	}

	return collectProducts(rows)
}

func (r *productRepo) GetPhoto(ctx context.Context, id int) ([]byte, string, error) {
	if id <= 0 {
		return nil, "", fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT photo, photo_type FROM products WHERE product_id = $1`

	var (
		photo     []byte
		photoType string
	)

	err := r.db.QueryRow(ctx, sql, id).Scan(&photo, &photoType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get product photo %d: %w", id, err)
	}

	if len(photo) == 0 {
		return nil, "", ErrNotFound
	}

	return photo, photoType, nil
}
