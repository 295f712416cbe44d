package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shop-service/internal/models"
	"shop-service/internal/repository"
)

// CachedProductRepository is a read-through cache in front of the real
// product repository. Only product-by-id and photo reads are cached;
// every mutation invalidates the affected keys so reads always reflect
// writes. List queries go straight to the store. Redis being down never
// fails a request — the store answers instead.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

func NewCachedProductRepository(realRepo repository.ProductRepository, redis *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redis,
		ttl:      5 * time.Minute,
	}
}

const notFoundMarker = "notfound"

func productKey(id int) string      { return fmt.Sprintf("product:%d", id) }
func productPhotoKey(id int) string { return fmt.Sprintf("product:photo:%d", id) }

func (c *CachedProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrNotFound
		}

		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Printf("failed to unmarshal cached product (continuing with store): %v", err)
			break
		}

		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("redis error (continuing with store): %v", err)
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, time.Minute).Err(); setErr != nil {
				log.Printf("failed to cache notfound: %v", setErr)
			}
		}
		return nil, err
	}

	jsonData, err := json.Marshal(product)
	if err != nil {
		log.Printf("failed to marshal product: %v", err)
		return product, nil
	}

	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		log.Printf("failed to cache product: %v", err)
	}

	return product, nil
}

type cachedPhoto struct {
	Data []byte `json:"data"`
	Type string `json:"type"`
}

func (c *CachedProductRepository) GetPhoto(ctx context.Context, id int) ([]byte, string, error) {
	key := productPhotoKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, "", repository.ErrNotFound
		}

		var photo cachedPhoto
		if err := json.Unmarshal(data, &photo); err != nil {
			log.Printf("failed to unmarshal cached photo (continuing with store): %v", err)
			break
		}

		return photo.Data, photo.Type, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("redis error (continuing with store): %v", err)
	}

	photoData, photoType, err := c.realRepo.GetPhoto(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, time.Minute).Err(); setErr != nil {
				log.Printf("failed to cache notfound: %v", setErr)
			}
		}
		return nil, "", err
	}

	jsonData, err := json.Marshal(cachedPhoto{Data: photoData, Type: photoType})
	if err != nil {
		log.Printf("failed to marshal photo: %v", err)
		return photoData, photoType, nil
	}

	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		log.Printf("failed to cache photo: %v", err)
	}

	return photoData, photoType, nil
}

func (c *CachedProductRepository) invalidate(ctx context.Context, id int) {
	if err := c.redis.Del(ctx, productKey(id), productPhotoKey(id)).Err(); err != nil {
		log.Printf("failed to invalidate product cache %d: %v", id, err)
	}
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}
	// A notfound marker may be cached for an id that just got reused.
	c.invalidate(ctx, product.ProductID)
	return nil
}

func (c *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Update(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx, product.ProductID)
	return nil
}

func (c *CachedProductRepository) Delete(ctx context.Context, id int) error {
	if err := c.realRepo.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProductRepository) GetAll(ctx context.Context, limit int) ([]models.Product, error) {
	return c.realRepo.GetAll(ctx, limit)
}

func (c *CachedProductRepository) GetPage(ctx context.Context, page, perPage int) ([]models.Product, error) {
	return c.realRepo.GetPage(ctx, page, perPage)
}

func (c *CachedProductRepository) Count(ctx context.Context) (int, error) {
	return c.realRepo.Count(ctx)
}

func (c *CachedProductRepository) Filter(ctx context.Context, categoryIDs []int, priceRange []float64) ([]models.Product, error) {
	return c.realRepo.Filter(ctx, categoryIDs, priceRange)
}

func (c *CachedProductRepository) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return c.realRepo.Search(ctx, keyword)
}

func (c *CachedProductRepository) GetRelated(ctx context.Context, productID, categoryID, limit int) ([]models.Product, error) {
	return c.realRepo.GetRelated(ctx, productID, categoryID, limit)
}

func (c *CachedProductRepository) GetByCategory(ctx context.Context, categoryID int) ([]models.Product, error) {
	return c.realRepo.GetByCategory(ctx, categoryID)
}
