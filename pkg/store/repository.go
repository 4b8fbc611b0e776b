package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"snatchx.shop/storefront/pkg/kv"
	"snatchx.shop/storefront/pkg/models"
)

// ErrNoOwner is returned when an operation needs an owner scope that is missing
var ErrNoOwner = errors.New("store: no owner scope")

// Repository persists a whole collection for one owner. Load reports whether
// a persisted collection exists at all.
type Repository[T any] interface {
	Load(ctx context.Context, owner models.Owner) ([]T, bool, error)
	Save(ctx context.Context, owner models.Owner, items []T) error
}

const (
	CartKeyPrefix     = "cart_"
	WishlistKeyPrefix = "wishlist_"
)

// LocalRepository keeps guest collections in a key-value store as JSON,
// keyed by prefix + session id
type LocalRepository[T any] struct {
	store  kv.Store
	prefix string
}

func NewLocalRepository[T any](store kv.Store, prefix string) *LocalRepository[T] {
	return &LocalRepository[T]{store: store, prefix: prefix}
}

func (r *LocalRepository[T]) key(owner models.Owner) (string, error) {
	if owner.SessionID == "" {
		return "", ErrNoOwner
	}
	return r.prefix + owner.SessionID, nil
}

func (r *LocalRepository[T]) Load(ctx context.Context, owner models.Owner) ([]T, bool, error) {
	key, err := r.key(owner)
	if err != nil {
		return nil, false, err
	}

	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return items, true, nil
}

func (r *LocalRepository[T]) Save(ctx context.Context, owner models.Owner, items []T) error {
	key, err := r.key(owner)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
