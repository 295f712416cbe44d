package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-service/internal/models"
)

type categoryRepo struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	if c.Name == "" {
		return fmt.Errorf("%w: category name required", ErrInvalidInput)
	}
	if c.Slug == "" {
		return fmt.Errorf("%w: category slug required", ErrInvalidInput)
	}

	sql := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING category_id
	`

	err := r.db.QueryRow(ctx, sql, c.Name, c.Slug).Scan(&c.CategoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: category slug already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	if c.CategoryID <= 0 {
		return fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: category name required", ErrInvalidInput)
	}

	sql := `
		UPDATE categories
		SET name = $1, slug = $2
		WHERE category_id = $3
	`

	result, err := r.db.Exec(ctx, sql, c.Name, c.Slug, c.CategoryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: category slug already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to update category %d: %w", c.CategoryID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	sql := `DELETE FROM categories WHERE category_id = $1`

	result, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: category still has products", ErrInvalidInput)
		}
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *categoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	sql := `
		SELECT category_id, name, slug
		FROM categories
		ORDER BY category_id
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}

	defer rows.Close()

	var categories []models.Category

	for rows.Next() {
		var c models.Category

		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan categories: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return categories, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id int) (*models.Category, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	sql := `
		SELECT category_id, name, slug
		FROM categories WHERE category_id = $1
	`

	var category models.Category

	err := r.db.QueryRow(ctx, sql, id).Scan(&category.CategoryID, &category.Name, &category.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}

	return &category, nil
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: slug cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT category_id, name, slug
		FROM categories WHERE slug = $1
	`

	var category models.Category

	err := r.db.QueryRow(ctx, sql, slug).Scan(&category.CategoryID, &category.Name, &category.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by slug %s: %w", slug, err)
	}

	return &category, nil
}
