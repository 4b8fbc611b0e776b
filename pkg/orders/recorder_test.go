package orders

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snatchx.shop/storefront/pkg/clock"
	"snatchx.shop/storefront/pkg/discount"
	"snatchx.shop/storefront/pkg/kv"
	"snatchx.shop/storefront/pkg/models"
	"snatchx.shop/storefront/pkg/store"
)

type cartDocs struct {
	mu      sync.Mutex
	docs    map[string][]models.LineItem
	saveErr error
}

func (c *cartDocs) Load(_ context.Context, owner models.Owner) ([]models.LineItem, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, ok := c.docs[owner.UserID]
	return append([]models.LineItem(nil), items...), ok, nil
}

func (c *cartDocs) Save(_ context.Context, owner models.Owner, items []models.LineItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.docs[owner.UserID] = append([]models.LineItem(nil), items...)
	return nil
}

type failingRepo struct{ err error }

func (f failingRepo) Insert(context.Context, *models.Order) error { return f.err }
func (f failingRepo) ListByUser(context.Context, string) ([]models.Order, error) {
	return nil, f.err
}

type fixture struct {
	cache    *kv.Memory
	clock    *clock.Manual
	docs     *cartDocs
	repo     *MemoryRepository
	recorder *Recorder
}

var (
	user = models.UserOwner("u1", "s1")
	now  = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	bag  = models.Product{ID: 7, Title: "Bag", Price: 20}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		cache: kv.NewMemory(),
		clock: clock.NewManual(now),
		docs:  &cartDocs{docs: make(map[string][]models.LineItem)},
		repo:  NewMemoryRepository(),
	}
	quoter := &discount.Quoter{
		Deriver: discount.NewDeriver(f.cache, nil),
		Pricing: discount.NewPricing(discount.DefaultConversionRate),
	}
	f.recorder = NewRecorder(f.repo, quoter, f.clock, nil, WithRand(rand.New(rand.NewPCG(1, 2))))
	return f
}

func (f *fixture) cart(t *testing.T, owner models.Owner, items ...models.LineItem) *store.Cart {
	t.Helper()

	ctx := context.Background()
	cart := store.NewCart(store.NewLocalRepository[models.LineItem](kv.NewMemory(), store.CartKeyPrefix), f.docs, store.HandoffReplace, nil)
	require.NoError(t, cart.SwitchOwner(ctx, owner))
	for _, item := range items {
		require.NoError(t, cart.AddToCart(ctx, item.Product, item.Quantity))
	}
	return cart
}

func TestCheckoutComputesDiscountedTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.cache.Set(ctx, discount.CacheKey(discount.DayKey(now), 7), "25"))
	cart := f.cart(t, user, models.LineItem{Product: bag, Quantity: 2})

	order, err := f.recorder.Checkout(ctx, cart, user)
	require.NoError(t, err)

	assert.Equal(t, "2250.00", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 25, order.Items[0].DiscountPercent)
	assert.Equal(t, "1125.00", order.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, now, order.CreatedAt)
	assert.NotEmpty(t, order.ID)
	assert.Empty(t, cart.Items(), "checkout clears the cart")
	assert.Empty(t, f.docs.docs["u1"])
}

func TestCheckoutSnapshotIsImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.cache.Set(ctx, discount.CacheKey(discount.DayKey(now), 7), "25"))
	cart := f.cart(t, user, models.LineItem{Product: bag, Quantity: 2})

	_, err := f.recorder.Checkout(ctx, cart, user)
	require.NoError(t, err)

	// a new day with a different cached discount
	require.NoError(t, f.cache.Set(ctx, discount.CacheKey(discount.DayKey(now), 7), "80"))
	f.clock.Advance(36 * time.Hour)

	history, err := f.recorder.History(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2250.00", history[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "1125.00", history[0].Items[0].UnitPrice.StringFixed(2))
}

func TestCheckoutGating(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		cart := f.cart(t, user)

		order, err := f.recorder.Checkout(ctx, cart, user)
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Nil(t, order)

		stored, _ := f.repo.ListByUser(ctx, "u1")
		assert.Empty(t, stored)
	})

	t.Run("guest owner", func(t *testing.T) {
		f := newFixture(t)
		guest := models.GuestOwner("s1")
		cart := f.cart(t, guest, models.LineItem{Product: bag, Quantity: 1})

		order, err := f.recorder.Checkout(ctx, cart, guest)
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.Nil(t, order)
		assert.True(t, cart.IsInCart(bag.ID), "the cart is left alone")

		stored, _ := f.repo.ListByUser(ctx, "")
		assert.Empty(t, stored)
	})
}

func TestCheckoutPersistFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cart := f.cart(t, user, models.LineItem{Product: bag, Quantity: 1})
	recorder := NewRecorder(failingRepo{err: errors.New("write failed")}, f.recorder.quoter, f.clock, nil)

	_, err := recorder.Checkout(ctx, cart, user)
	require.Error(t, err)
	assert.True(t, cart.IsInCart(bag.ID))
}

func TestCheckoutClearFailureStillReturnsOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cart := f.cart(t, user, models.LineItem{Product: bag, Quantity: 1})
	f.docs.saveErr = errors.New("write failed")

	order, err := f.recorder.Checkout(ctx, cart, user)
	require.NoError(t, err)
	require.NotNil(t, order)

	stored, _ := f.repo.ListByUser(ctx, "u1")
	assert.Len(t, stored, 1)
	assert.True(t, cart.IsInCart(bag.ID))
}

func TestShippingDaysRange(t *testing.T) {
	f := newFixture(t)
	seen := map[int]bool{}

	for i := 0; i < 300; i++ {
		days := f.recorder.shippingDays()
		assert.GreaterOrEqual(t, days, models.MinShippingDays)
		assert.LessOrEqual(t, days, models.MaxShippingDays)
		seen[days] = true
	}
	assert.Len(t, seen, 3)
}

func TestHistoryNewestFirstAndDerivedStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	old := models.Order{UserID: "u1", CreatedAt: now.AddDate(0, 0, -10), ShippingDays: 3, Status: models.OrderStatusPlaced}
	recent := models.Order{UserID: "u1", CreatedAt: now.AddDate(0, 0, -1), ShippingDays: 3, Status: models.OrderStatusPlaced}
	other := models.Order{UserID: "u2", CreatedAt: now, ShippingDays: 2, Status: models.OrderStatusPlaced}
	for _, o := range []models.Order{old, recent, other} {
		require.NoError(t, f.repo.Insert(ctx, &o))
	}

	history, err := f.recorder.History(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, recent.CreatedAt, history[0].CreatedAt)
	assert.Equal(t, models.OrderStatusPlaced, history[0].Status)
	assert.Equal(t, old.CreatedAt, history[1].CreatedAt)
	assert.Equal(t, models.OrderStatusDelivered, history[1].Status)
	assert.Equal(t, models.OrderStatusPlaced, history[1].StoredStatus)

	_, err = f.recorder.History(ctx, models.GuestOwner("s1"))
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestCategorySpending(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	item := func(category string, qty int, subtotal string) models.OrderItem {
		return models.OrderItem{
			LineItem: models.LineItem{Product: models.Product{Category: category}, Quantity: qty},
			Subtotal: decimal.RequireFromString(subtotal),
		}
	}
	require.NoError(t, repo.Insert(ctx, &models.Order{UserID: "u1", CreatedAt: now, Items: []models.OrderItem{
		item("jewelery", 1, "100.00"),
		item("electronics", 2, "300.00"),
	}}))
	require.NoError(t, repo.Insert(ctx, &models.Order{UserID: "u1", CreatedAt: now.Add(time.Hour), Items: []models.OrderItem{
		item("jewelery", 3, "250.50"),
	}}))
	require.NoError(t, repo.Insert(ctx, &models.Order{UserID: "u2", CreatedAt: now, Items: []models.OrderItem{
		item("books", 1, "999.00"),
	}}))

	spending, err := repo.CategorySpending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, spending, 2)

	assert.Equal(t, "jewelery", spending[0].Category)
	assert.Equal(t, 4, spending[0].Units)
	assert.Equal(t, "350.50", spending[0].Spent.StringFixed(2))
	assert.Equal(t, "electronics", spending[1].Category)
}
