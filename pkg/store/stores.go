package store

import (
	"context"

	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/models"
)

// Backends wires the repositories shared by every cart and wishlist
type Backends struct {
	LocalCart      Repository[models.LineItem]
	RemoteCart     Repository[models.LineItem]
	LocalWishlist  Repository[models.Product]
	RemoteWishlist Repository[models.Product]
	Handoff        Handoff
	Logger         *zap.Logger
}

// Cart returns a cart loaded for owner
func (b *Backends) Cart(ctx context.Context, owner models.Owner) (*Cart, error) {
	cart := NewCart(b.LocalCart, b.RemoteCart, b.Handoff, b.Logger)
	if err := cart.SwitchOwner(ctx, owner); err != nil {
		return nil, err
	}
	return cart, nil
}

// Wishlist returns a wishlist loaded for owner
func (b *Backends) Wishlist(ctx context.Context, owner models.Owner) (*Wishlist, error) {
	wishlist := NewWishlist(b.LocalWishlist, b.RemoteWishlist, b.Handoff, b.Logger)
	if err := wishlist.SwitchOwner(ctx, owner); err != nil {
		return nil, err
	}
	return wishlist, nil
}
