package repository

import (
	"context"

	"shop-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int) error
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Product, error)
	GetAll(ctx context.Context, limit int) ([]models.Product, error)
	GetPage(ctx context.Context, page, perPage int) ([]models.Product, error)
	Count(ctx context.Context) (int, error)
	Filter(ctx context.Context, categoryIDs []int, priceRange []float64) ([]models.Product, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	GetRelated(ctx context.Context, productID, categoryID, limit int) ([]models.Product, error)
	GetByCategory(ctx context.Context, categoryID int) ([]models.Product, error)
	GetPhoto(ctx context.Context, id int) ([]byte, string, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByBuyer(ctx context.Context, buyerID int) ([]models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}
