// Package orders records checkouts and serves order history.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/clock"
	"snatchx.shop/storefront/pkg/discount"
	"snatchx.shop/storefront/pkg/models"
	"snatchx.shop/storefront/pkg/store"
)

var (
	// ErrAuthRequired means checkout was attempted without a signed-in owner
	ErrAuthRequired = errors.New("authentication required")
	ErrEmptyCart    = errors.New("cart is empty")
)

// Repository persists orders. ListByUser must return newest first by
// CreatedAt.
type Repository interface {
	Insert(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// SpendingReporter breaks a user's order history down by category
type SpendingReporter interface {
	CategorySpending(ctx context.Context, userID string) ([]models.CategorySpend, error)
}

// Recorder turns carts into immutable orders
type Recorder struct {
	repo   Repository
	quoter *discount.Quoter
	clock  clock.Clock
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Recorder)

// WithRand sets the source used to draw shipping days
func WithRand(rng *rand.Rand) Option {
	return func(r *Recorder) { r.rng = rng }
}

func NewRecorder(repo Repository, quoter *discount.Quoter, clk clock.Clock, logger *zap.Logger, opts ...Option) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		repo:   repo,
		quoter: quoter,
		clock:  clk,
		logger: logger.Named("orders"),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Checkout snapshots cart into an order for owner, persists it and then
// empties the cart. No order is created for a guest owner or an empty cart.
// If the order is stored but the cart cannot be cleared the order is still
// returned and the divergence is logged.
func (r *Recorder) Checkout(ctx context.Context, cart *store.Cart, owner models.Owner) (*models.Order, error) {
	if !owner.Authenticated() {
		return nil, ErrAuthRequired
	}

	items := cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := r.snapshot(ctx, owner.UserID, items)

	if err := r.repo.Insert(ctx, order); err != nil {
		r.logger.Error("failed to persist order",
			zap.String("owner", owner.Scope()),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := cart.ClearCart(ctx); err != nil {
		r.logger.Warn("order persisted but cart was not cleared",
			zap.String("owner", owner.Scope()),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	r.logger.Info("order placed",
		zap.String("owner", owner.Scope()),
		zap.String("order_id", order.ID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("shipping_days", order.ShippingDays))

	return order, nil
}

func (r *Recorder) snapshot(ctx context.Context, userID string, items []models.LineItem) *models.Order {
	now := r.clock.Now()

	order := &models.Order{
		OrderNumber:  models.GenerateOrderNumber(now),
		UserID:       userID,
		Items:        make([]models.OrderItem, 0, len(items)),
		CreatedAt:    now,
		Status:       models.OrderStatusPlaced,
		ShippingDays: r.shippingDays(),
	}

	for _, item := range items {
		quote := r.quoter.Quote(ctx, &item.Product, now)
		order.Items = append(order.Items, models.OrderItem{
			LineItem:        item,
			DiscountPercent: quote.Percent,
			UnitPrice:       quote.DiscountedPrice,
			Subtotal:        quote.DiscountedPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	order.TotalAmount = order.CalculateTotal()

	return order
}

func (r *Recorder) shippingDays() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.MinShippingDays + r.rng.IntN(models.MaxShippingDays-models.MinShippingDays+1)
}

// History lists the owner's orders newest first, each presented as of now
func (r *Recorder) History(ctx context.Context, owner models.Owner) ([]models.OrderView, error) {
	if !owner.Authenticated() {
		return nil, ErrAuthRequired
	}

	orders, err := r.repo.ListByUser(ctx, owner.UserID)
	if err != nil {
		r.logger.Error("failed to list orders", zap.String("owner", owner.Scope()), zap.Error(err))
		return nil, fmt.Errorf("list orders: %w", err)
	}

	now := r.clock.Now()
	views := make([]models.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, orders[i].Present(now))
	}
	return views, nil
}
