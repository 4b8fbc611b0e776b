package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"snatchx.shop/storefront/pkg/catalog"
	"snatchx.shop/storefront/pkg/discount"
	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/models"
)

// ProductView is a catalog product with today's deal applied
type ProductView struct {
	models.Product
	discount.Quote
}

func (h *Handler) quote(ctx context.Context, product *models.Product, now time.Time) ProductView {
	return ProductView{Product: *product, Quote: h.quoter.Quote(ctx, product, now)}
}

func (h *Handler) quoteAll(ctx context.Context, products []models.Product) []ProductView {
	now := h.clock.Now()
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, h.quote(ctx, &products[i], now))
	}
	return views
}

func (h *Handler) GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.catalog.Products(ctx)
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to get products")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.quoteAll(ctx, products)))
}

func (h *Handler) GetProductByID(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	product, ok := h.product(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.quote(c.Request.Context(), product, h.clock.Now())))
}

func (h *Handler) GetRelatedProducts(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	product, ok := h.product(c, id)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	related, err := catalog.Related(ctx, h.catalog, product, relatedLimit)
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to get related products")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.quoteAll(ctx, related)))
}

func (h *Handler) GetProductsByCategory(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.catalog.Category(ctx, c.Param("category"))
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to get products")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.quoteAll(ctx, products)))
}

func (h *Handler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to get categories")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}

type countdownResponse struct {
	EndsAt           time.Time `json:"ends_at"`
	RemainingSeconds int64     `json:"remaining_seconds"`
}

// GetDealCountdown reports how long today's discounts stay in force
func (h *Handler) GetDealCountdown(c *gin.Context) {
	now := h.clock.Now()
	remaining := discount.UntilReset(now)

	c.JSON(http.StatusOK, global.SuccessResponse(countdownResponse{
		EndsAt:           now.Add(remaining),
		RemainingSeconds: int64(remaining / time.Second),
	}))
}
