package catalog

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/models"
)

// ErrCacheMiss is returned by a Cache that does not hold the product
var ErrCacheMiss = errors.New("catalog cache miss")

// Cache stores individual products by id and the full id set of every
// category listed from the origin
type Cache interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	// CategoryIDs returns ErrCacheMiss when the category was never listed
	CategoryIDs(ctx context.Context, category string) ([]int, error)
	SetCategory(ctx context.Context, category string, products []models.Product) error
}

// Cached serves single-product lookups from a Cache before going to the
// origin; lists always come from the origin and refresh the cache.
type Cached struct {
	origin Reader
	cache  Cache
	logger *zap.Logger
}

func NewCached(origin Reader, cache Cache, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{origin: origin, cache: cache, logger: logger.Named("catalog")}
}

func (c *Cached) Product(ctx context.Context, id int) (*models.Product, error) {
	product, err := c.cache.GetProduct(ctx, id)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("failed to read product cache", zap.Int("product_id", id), zap.Error(err))
	}

	product, err = c.origin.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, product)
	return product, nil
}

func (c *Cached) Products(ctx context.Context) ([]models.Product, error) {
	products, err := c.origin.Products(ctx)
	if err != nil {
		return nil, err
	}

	var order []string
	byCategory := make(map[string][]models.Product)
	for _, product := range products {
		if _, ok := byCategory[product.Category]; !ok {
			order = append(order, product.Category)
		}
		byCategory[product.Category] = append(byCategory[product.Category], product)
	}
	for _, category := range order {
		c.storeCategory(ctx, category, byCategory[category])
	}
	return products, nil
}

// Category serves a previously listed category from the cache. Any product
// missing from the cache sends the whole listing back to the origin.
func (c *Cached) Category(ctx context.Context, category string) ([]models.Product, error) {
	if products, ok := c.cachedCategory(ctx, category); ok {
		return products, nil
	}

	products, err := c.origin.Category(ctx, category)
	if err != nil {
		return nil, err
	}
	c.storeCategory(ctx, category, products)
	return products, nil
}

func (c *Cached) cachedCategory(ctx context.Context, category string) ([]models.Product, bool) {
	ids, err := c.cache.CategoryIDs(ctx, category)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("failed to read category cache", zap.String("category", category), zap.Error(err))
		}
		return nil, false
	}
	if len(ids) == 0 {
		return nil, false
	}

	sort.Ints(ids)
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		product, err := c.cache.GetProduct(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrCacheMiss) {
				c.logger.Warn("failed to read product cache", zap.Int("product_id", id), zap.Error(err))
			}
			return nil, false
		}
		products = append(products, *product)
	}
	return products, true
}

func (c *Cached) Categories(ctx context.Context) ([]string, error) {
	return c.origin.Categories(ctx)
}

func (c *Cached) storeCategory(ctx context.Context, category string, products []models.Product) {
	if err := c.cache.SetCategory(ctx, category, products); err != nil {
		c.logger.Warn("failed to cache category", zap.String("category", category), zap.Error(err))
	}
}

func (c *Cached) store(ctx context.Context, product *models.Product) {
	if err := c.cache.SetProduct(ctx, product); err != nil {
		c.logger.Warn("failed to cache product", zap.Int("product_id", product.ID), zap.Error(err))
	}
}
