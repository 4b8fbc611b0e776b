// Package catalog reads products from the remote product API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"snatchx.shop/storefront/pkg/models"
)

// ErrNotFound means the catalog has no product with the requested id
var ErrNotFound = errors.New("product not found")

// Reader is the read-only view of the catalog used by the rest of the service
type Reader interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id int) (*models.Product, error)
	Category(ctx context.Context, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

const defaultMaxBodySize = 8 << 20

// Client talks HTTP to the catalog API
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxBodySize int64
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxBodySize: defaultMaxBodySize,
	}
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if _, err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one product. A 404 or an empty body both mean the id is
// unknown to the catalog.
func (c *Client) Product(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	var product *models.Product
	status, err := c.get(ctx, "/products/"+strconv.Itoa(id), &product)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if product == nil || product.IsZero() {
		return nil, ErrNotFound
	}
	return product, nil
}

func (c *Client) Category(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	if _, err := c.get(ctx, "/products/category/"+url.PathEscape(category), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if _, err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) get(ctx context.Context, path string, out any) (int, error) {
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("catalog %s: unexpected status: %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return resp.StatusCode, fmt.Errorf("catalog %s: response larger than %d bytes", path, c.maxBodySize)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// Related returns up to limit products sharing product's category, without
// product itself
func Related(ctx context.Context, reader Reader, product *models.Product, limit int) ([]models.Product, error) {
	candidates, err := reader.Category(ctx, product.Category)
	if err != nil {
		return nil, err
	}

	related := make([]models.Product, 0, limit)
	for _, p := range candidates {
		if p.ID == product.ID {
			continue
		}
		if len(related) == limit {
			break
		}
		related = append(related, p)
	}
	return related, nil
}
