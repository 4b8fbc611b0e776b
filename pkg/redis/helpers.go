package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"snatchx.shop/storefront/pkg/catalog"
	"snatchx.shop/storefront/pkg/models"
)

// ProductCache keeps catalog products as JSON under product:{id}
type ProductCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewProductCache(client *redis.Client, namespace string, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, namespace: namespace, ttl: ttl}
}

func (c *ProductCache) productKey(id int) string {
	return c.namespace + "product:" + strconv.Itoa(id)
}

func (c *ProductCache) categoryKey(category string) string {
	return c.namespace + "category:" + category
}

func (c *ProductCache) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	productJSON, err := c.client.Get(ctx, c.productKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, catalog.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	return &product, nil
}

// SetProduct stores a single product
func (c *ProductCache) SetProduct(ctx context.Context, product *models.Product) error {
	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %d: %w", product.ID, err)
	}

	if err := c.client.Set(ctx, c.productKey(product.ID), productJSON, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product %d: %w", product.ID, err)
	}
	return nil
}

// SetCategory stores every product of a category and replaces the category
// id set in one transaction
func (c *ProductCache) SetCategory(ctx context.Context, category string, products []models.Product) error {
	pipe := c.client.TxPipeline()

	categoryKey := c.categoryKey(category)
	pipe.Del(ctx, categoryKey)
	for i := range products {
		productJSON, err := json.Marshal(&products[i])
		if err != nil {
			return fmt.Errorf("failed to marshal product %d: %w", products[i].ID, err)
		}
		pipe.Set(ctx, c.productKey(products[i].ID), productJSON, c.ttl)
		pipe.SAdd(ctx, categoryKey, products[i].ID)
	}
	pipe.Expire(ctx, categoryKey, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute Redis pipeline for category %s: %w", category, err)
	}

	return nil
}

// CategoryIDs lists the cached product ids for a category
func (c *ProductCache) CategoryIDs(ctx context.Context, category string) ([]int, error) {
	members, err := c.client.SMembers(ctx, c.categoryKey(category)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, catalog.ErrCacheMiss
	}

	ids := make([]int, 0, len(members))
	for _, member := range members {
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
