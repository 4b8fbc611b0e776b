package store

import (
	"context"

	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/models"
)

// Wishlist is a set of liked products keyed by product id
type Wishlist struct {
	c *collection[models.Product]
}

func NewWishlist(local, remote Repository[models.Product], handoff Handoff, logger *zap.Logger) *Wishlist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wishlist{c: &collection[models.Product]{
		kind:    "wishlist",
		local:   local,
		remote:  remote,
		handoff: handoff,
		key:     func(p models.Product) int { return p.ID },
		combine: func(existing, _ models.Product) models.Product { return existing },
		logger:  logger.Named("wishlist"),
	}}
}

func (w *Wishlist) SwitchOwner(ctx context.Context, owner models.Owner) error {
	return w.c.switchOwner(ctx, owner)
}

func (w *Wishlist) AddToWishlist(ctx context.Context, product models.Product) error {
	return w.c.mutate(ctx, "add to wishlist", func(items []models.Product) ([]models.Product, bool) {
		if indexOf(items, product.ID, w.c.key) >= 0 {
			return items, false
		}
		return append(items, product), true
	})
}

func (w *Wishlist) RemoveFromWishlist(ctx context.Context, productID int) error {
	return w.c.mutate(ctx, "remove from wishlist", func(items []models.Product) ([]models.Product, bool) {
		return removeID(items, productID, w.c.key)
	})
}

// ToggleWishlist removes product when present and adds it otherwise, in a
// single read-modify-write. It returns whether the product is now liked.
func (w *Wishlist) ToggleWishlist(ctx context.Context, product models.Product) (bool, error) {
	var liked bool
	err := w.c.mutate(ctx, "toggle wishlist", func(items []models.Product) ([]models.Product, bool) {
		if updated, removed := removeID(items, product.ID, w.c.key); removed {
			liked = false
			return updated, true
		}
		liked = true
		return append(items, product), true
	})
	if err != nil {
		return w.IsInWishlist(product.ID), err
	}
	return liked, nil
}

func (w *Wishlist) IsInWishlist(productID int) bool {
	return w.c.contains(productID)
}

func (w *Wishlist) ClearWishlist(ctx context.Context) error {
	return w.c.reset(ctx, "clear wishlist")
}

func (w *Wishlist) Items() []models.Product {
	return w.c.snapshot()
}

func (w *Wishlist) Owner() models.Owner {
	return w.c.currentOwner()
}
