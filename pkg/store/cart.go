package store

import (
	"context"

	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/models"
)

// Cart is the ordered line items of one owner
type Cart struct {
	c *collection[models.LineItem]
}

func NewCart(local, remote Repository[models.LineItem], handoff Handoff, logger *zap.Logger) *Cart {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cart{c: &collection[models.LineItem]{
		kind:    "cart",
		local:   local,
		remote:  remote,
		handoff: handoff,
		key:     func(li models.LineItem) int { return li.ID },
		combine: func(existing, incoming models.LineItem) models.LineItem {
			existing.Quantity += incoming.Quantity
			return existing
		},
		logger: logger.Named("cart"),
	}}
}

// SwitchOwner replaces the in-memory cart with the one persisted for owner
func (c *Cart) SwitchOwner(ctx context.Context, owner models.Owner) error {
	return c.c.switchOwner(ctx, owner)
}

// AddToCart adds quantity units of product, accumulating onto an existing
// line item for the same product id. Quantities below 1 add a single unit.
func (c *Cart) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return c.c.mutate(ctx, "add to cart", func(items []models.LineItem) ([]models.LineItem, bool) {
		if i := indexOf(items, product.ID, c.c.key); i >= 0 {
			items[i].Quantity += quantity
			return items, true
		}
		return append(items, models.LineItem{Product: product, Quantity: quantity}), true
	})
}

// RemoveFromCart drops the line item for productID; absent ids are a no-op
func (c *Cart) RemoveFromCart(ctx context.Context, productID int) error {
	return c.c.mutate(ctx, "remove from cart", func(items []models.LineItem) ([]models.LineItem, bool) {
		return removeID(items, productID, c.c.key)
	})
}

// UpdateQuantity sets the quantity exactly. Anything below 1 removes the item.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		return c.RemoveFromCart(ctx, productID)
	}
	return c.c.mutate(ctx, "update quantity", func(items []models.LineItem) ([]models.LineItem, bool) {
		i := indexOf(items, productID, c.c.key)
		if i < 0 || items[i].Quantity == quantity {
			return items, false
		}
		items[i].Quantity = quantity
		return items, true
	})
}

// ClearCart empties the cart, keeping the persisted document
func (c *Cart) ClearCart(ctx context.Context) error {
	return c.c.reset(ctx, "clear cart")
}

func (c *Cart) IsInCart(productID int) bool {
	return c.c.contains(productID)
}

// GetCartTotal is the undiscounted source-price total
func (c *Cart) GetCartTotal() float64 {
	var total float64
	for _, item := range c.c.snapshot() {
		total += item.Subtotal()
	}
	return total
}

// Count returns the number of units in the cart
func (c *Cart) Count() int {
	var count int
	for _, item := range c.c.snapshot() {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the line items in insertion order
func (c *Cart) Items() []models.LineItem {
	return c.c.snapshot()
}

func (c *Cart) Owner() models.Owner {
	return c.c.currentOwner()
}

func removeID[T any](items []T, id int, key func(T) int) ([]T, bool) {
	i := indexOf(items, id, key)
	if i < 0 {
		return items, false
	}
	return append(items[:i], items[i+1:]...), true
}
