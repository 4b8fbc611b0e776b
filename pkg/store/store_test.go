package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snatchx.shop/storefront/pkg/kv"
	"snatchx.shop/storefront/pkg/models"
)

// memoryRepo stands in for the remote document store
type memoryRepo[T any] struct {
	mu      sync.Mutex
	docs    map[string][]T
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func newMemoryRepo[T any]() *memoryRepo[T] {
	return &memoryRepo[T]{docs: make(map[string][]T)}
}

func (r *memoryRepo[T]) Load(_ context.Context, owner models.Owner) ([]T, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.loadErr != nil {
		return nil, false, r.loadErr
	}
	items, ok := r.docs[owner.UserID]
	return clone(items), ok, nil
}

func (r *memoryRepo[T]) Save(_ context.Context, owner models.Owner, items []T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.docs[owner.UserID] = clone(items)
	return nil
}

func (r *memoryRepo[T]) doc(userID string) ([]T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.docs[userID]
	return items, ok
}

var (
	shirt = models.Product{ID: 1, Title: "Shirt", Price: 10}
	bag   = models.Product{ID: 7, Title: "Bag", Price: 20}
)

type cartFixture struct {
	local  kv.Store
	remote *memoryRepo[models.LineItem]
	cart   *Cart
}

func newCartFixture(t *testing.T, owner models.Owner) *cartFixture {
	t.Helper()

	f := &cartFixture{
		local:  kv.NewMemory(),
		remote: newMemoryRepo[models.LineItem](),
	}
	f.cart = NewCart(NewLocalRepository[models.LineItem](f.local, CartKeyPrefix), f.remote, HandoffReplace, nil)
	require.NoError(t, f.cart.SwitchOwner(context.Background(), owner))
	return f
}

func owners() map[string]models.Owner {
	return map[string]models.Owner{
		"guest": models.GuestOwner("s1"),
		"user":  models.UserOwner("u1", "s1"),
	}
}

func TestCartAccumulates(t *testing.T) {
	for name, owner := range owners() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newCartFixture(t, owner)

			require.NoError(t, f.cart.AddToCart(ctx, bag, 1))
			require.NoError(t, f.cart.AddToCart(ctx, bag, 2))

			items := f.cart.Items()
			require.Len(t, items, 1)
			assert.Equal(t, 7, items[0].ID)
			assert.Equal(t, 3, items[0].Quantity)
			assert.Equal(t, 3, f.cart.Count())
		})
	}
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.GuestOwner("s1"))

	require.NoError(t, f.cart.AddToCart(ctx, bag, 1))
	require.NoError(t, f.cart.AddToCart(ctx, shirt, 0))
	require.NoError(t, f.cart.AddToCart(ctx, bag, 1))

	items := f.cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, []int{7, 1}, []int{items[0].ID, items[1].ID})
	assert.Equal(t, 1, items[1].Quantity, "a zero quantity adds one unit")
}

func TestCartQuantityFloor(t *testing.T) {
	for name, owner := range owners() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newCartFixture(t, owner)

			require.NoError(t, f.cart.AddToCart(ctx, bag, 2))
			require.NoError(t, f.cart.UpdateQuantity(ctx, bag.ID, 5))
			assert.Equal(t, 5, f.cart.Items()[0].Quantity, "update sets the quantity exactly")

			require.NoError(t, f.cart.UpdateQuantity(ctx, bag.ID, 0))
			assert.False(t, f.cart.IsInCart(bag.ID))
			assert.Empty(t, f.cart.Items())

			require.NoError(t, f.cart.AddToCart(ctx, bag, 1))
			require.NoError(t, f.cart.UpdateQuantity(ctx, bag.ID, -3))
			assert.False(t, f.cart.IsInCart(bag.ID))
		})
	}
}

func TestCartRemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.UserOwner("u1", "s1"))
	saves := f.remote.saves

	require.NoError(t, f.cart.RemoveFromCart(ctx, 42))
	require.NoError(t, f.cart.UpdateQuantity(ctx, 42, 3))

	assert.Equal(t, saves, f.remote.saves)
	assert.Empty(t, f.cart.Items())
}

func TestCartTotalIsUndiscounted(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.GuestOwner("s1"))

	require.NoError(t, f.cart.AddToCart(ctx, bag, 2))
	require.NoError(t, f.cart.AddToCart(ctx, shirt, 1))

	assert.InDelta(t, 50.0, f.cart.GetCartTotal(), 1e-9)
}

func TestCartClearKeepsDocument(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.UserOwner("u1", "s1"))

	require.NoError(t, f.cart.AddToCart(ctx, bag, 2))
	require.NoError(t, f.cart.ClearCart(ctx))

	doc, ok := f.remote.doc("u1")
	assert.True(t, ok)
	assert.Empty(t, doc)
	assert.Empty(t, f.cart.Items())
}

func TestCartGuestPersistsLocally(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.GuestOwner("s1"))

	require.NoError(t, f.cart.AddToCart(ctx, bag, 2))

	reloaded := NewCart(NewLocalRepository[models.LineItem](f.local, CartKeyPrefix), f.remote, HandoffReplace, nil)
	require.NoError(t, reloaded.SwitchOwner(ctx, models.GuestOwner("s1")))
	assert.Equal(t, f.cart.Items(), reloaded.Items())
	assert.Zero(t, f.remote.saves, "guest carts never touch the remote store")
}

func TestCartRemoteReadsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	owner := models.UserOwner("u1", "s1")
	f := newCartFixture(t, owner)

	// another tab writes behind this cart's back
	other := NewCart(nil, f.remote, HandoffReplace, nil)
	require.NoError(t, other.SwitchOwner(ctx, owner))
	require.NoError(t, other.AddToCart(ctx, shirt, 1))

	require.NoError(t, f.cart.AddToCart(ctx, bag, 1))

	items := f.cart.Items()
	require.Len(t, items, 2)
	assert.True(t, f.cart.IsInCart(shirt.ID))
	doc, _ := f.remote.doc("u1")
	assert.Len(t, doc, 2)
}

func TestCartRemoteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.UserOwner("u1", "s1"))
	require.NoError(t, f.cart.AddToCart(ctx, bag, 1))

	boom := errors.New("unavailable")
	f.remote.saveErr = boom
	err := f.cart.AddToCart(ctx, shirt, 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.cart.IsInCart(shirt.ID))

	f.remote.saveErr = nil
	f.remote.loadErr = boom
	err = f.cart.UpdateQuantity(ctx, bag.ID, 4)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.cart.Items()[0].Quantity)
}

func TestSwitchOwnerCreatesEmptyDocument(t *testing.T) {
	f := newCartFixture(t, models.UserOwner("u9", "s1"))

	doc, ok := f.remote.doc("u9")
	assert.True(t, ok)
	assert.Empty(t, doc)
	assert.Equal(t, 1, f.remote.saves)
}

func TestSwitchOwnerReplacesGuestCart(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.GuestOwner("s1"))
	require.NoError(t, f.cart.AddToCart(ctx, shirt, 2))

	f.remote.docs["u1"] = []models.LineItem{{Product: bag, Quantity: 1}}

	require.NoError(t, f.cart.SwitchOwner(ctx, models.UserOwner("u1", "s1")))
	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, bag.ID, items[0].ID)
	assert.False(t, f.cart.IsInCart(shirt.ID), "guest items are not merged")

	// logging out reloads the guest scope
	require.NoError(t, f.cart.SwitchOwner(ctx, models.GuestOwner("s1")))
	assert.True(t, f.cart.IsInCart(shirt.ID))
	assert.False(t, f.cart.IsInCart(bag.ID))
}

func TestSwitchOwnerMergePolicy(t *testing.T) {
	ctx := context.Background()
	local := kv.NewMemory()
	remote := newMemoryRepo[models.LineItem]()
	remote.docs["u1"] = []models.LineItem{{Product: bag, Quantity: 1}}

	cart := NewCart(NewLocalRepository[models.LineItem](local, CartKeyPrefix), remote, HandoffMerge, nil)
	require.NoError(t, cart.SwitchOwner(ctx, models.GuestOwner("s1")))
	require.NoError(t, cart.AddToCart(ctx, bag, 2))
	require.NoError(t, cart.AddToCart(ctx, shirt, 1))

	require.NoError(t, cart.SwitchOwner(ctx, models.UserOwner("u1", "s1")))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	doc, _ := remote.doc("u1")
	assert.Len(t, doc, 2)
}

func TestMergeHandoffConsumesGuestCart(t *testing.T) {
	ctx := context.Background()
	backends := &Backends{
		LocalCart:      NewLocalRepository[models.LineItem](kv.NewMemory(), CartKeyPrefix),
		RemoteCart:     newMemoryRepo[models.LineItem](),
		LocalWishlist:  NewLocalRepository[models.Product](kv.NewMemory(), WishlistKeyPrefix),
		RemoteWishlist: newMemoryRepo[models.Product](),
		Handoff:        HandoffMerge,
	}
	guest := models.GuestOwner("s1")
	user := models.UserOwner("u1", "s1")

	cart, err := backends.Cart(ctx, guest)
	require.NoError(t, err)
	require.NoError(t, cart.AddToCart(ctx, bag, 1))

	for round := 1; round <= 2; round++ {
		cart, err = backends.Cart(ctx, guest)
		require.NoError(t, err)
		require.NoError(t, cart.SwitchOwner(ctx, user))

		items := cart.Items()
		require.Len(t, items, 1, "round %d", round)
		assert.Equal(t, 1, items[0].Quantity, "round %d", round)

		cart, err = backends.Cart(ctx, guest)
		require.NoError(t, err)
		assert.Empty(t, cart.Items(), "round %d: the guest cart was handed over", round)
	}

	wishlist, err := backends.Wishlist(ctx, guest)
	require.NoError(t, err)
	require.NoError(t, wishlist.AddToWishlist(ctx, shirt))
	require.NoError(t, wishlist.SwitchOwner(ctx, user))
	assert.True(t, wishlist.IsInWishlist(shirt.ID))

	wishlist, err = backends.Wishlist(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, wishlist.Items())
}

func TestSwitchOwnerLoadFailure(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t, models.GuestOwner("s1"))
	require.NoError(t, f.cart.AddToCart(ctx, shirt, 1))

	f.remote.loadErr = errors.New("offline")
	err := f.cart.SwitchOwner(ctx, models.UserOwner("u1", "s1"))
	require.Error(t, err)
	assert.Equal(t, models.GuestOwner("s1"), f.cart.Owner())
	assert.True(t, f.cart.IsInCart(shirt.ID))
}

func TestCartWithoutOwner(t *testing.T) {
	cart := NewCart(nil, nil, HandoffReplace, nil)

	assert.ErrorIs(t, cart.SwitchOwner(context.Background(), models.Owner{}), ErrNoOwner)
	assert.ErrorIs(t, cart.AddToCart(context.Background(), bag, 1), ErrNoOwner)
}

func TestParseHandoff(t *testing.T) {
	policy, err := ParseHandoff("")
	require.NoError(t, err)
	assert.Equal(t, HandoffReplace, policy)

	policy, err = ParseHandoff("merge")
	require.NoError(t, err)
	assert.Equal(t, HandoffMerge, policy)

	_, err = ParseHandoff("union")
	assert.Error(t, err)
}
