package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/models"
	"snatchx.shop/storefront/pkg/store"
)

type CartLine struct {
	models.LineItem
	DiscountPercent int             `json:"discount_percent"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// CartView is the cart priced at today's deals. Total is the undiscounted
// catalog total; DisplayTotal is what checkout would charge right now.
type CartView struct {
	Items        []CartLine      `json:"items"`
	Count        int             `json:"count"`
	Total        float64         `json:"total"`
	DisplayTotal decimal.Decimal `json:"display_total"`
}

func (h *Handler) cartView(ctx context.Context, cart *store.Cart) CartView {
	now := h.clock.Now()
	items := cart.Items()

	view := CartView{
		Items:        make([]CartLine, 0, len(items)),
		Count:        cart.Count(),
		Total:        cart.GetCartTotal(),
		DisplayTotal: decimal.Zero,
	}
	for _, item := range items {
		quote := h.quoter.Quote(ctx, &item.Product, now)
		subtotal := quote.DiscountedPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartLine{
			LineItem:        item,
			DiscountPercent: quote.Percent,
			UnitPrice:       quote.DiscountedPrice,
			Subtotal:        subtotal,
		})
		view.DisplayTotal = view.DisplayTotal.Add(subtotal)
	}
	return view
}

// loadCart returns the caller's cart, answering the error itself on failure
func (h *Handler) loadCart(c *gin.Context) (*store.Cart, bool) {
	cart, err := h.stores.Cart(c.Request.Context(), currentOwner(c))
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to load cart")
		return nil, false
	}
	return cart, true
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(h.cartView(c.Request.Context(), cart)))
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	product, ok := h.product(c, req.ProductID)
	if !ok {
		return
	}
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := cart.AddToCart(ctx, *product, req.Quantity); err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.cartView(ctx, cart)))
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var req models.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := cart.UpdateQuantity(ctx, id, req.Quantity); err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.cartView(ctx, cart)))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := cart.RemoveFromCart(ctx, id); err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to remove cart item")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.cartView(ctx, cart)))
}

func (h *Handler) ClearCart(c *gin.Context) {
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := cart.ClearCart(ctx); err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.cartView(ctx, cart)))
}
