// Package store holds the owner-scoped cart and wishlist.
//
// A collection is bound to one owner at a time. Guest owners mutate the
// in-memory collection and persist it to the local repository. Signed-in
// owners go through the remote repository with a read-modify-write: the
// latest persisted collection is re-read, the mutation applied and the whole
// collection written back. Nothing is transactional; two writers racing on
// the same owner resolve as last write wins. A failed write leaves the
// in-memory collection untouched and is neither retried nor rolled back.
package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/models"
)

type collection[T any] struct {
	mu sync.Mutex

	kind    string
	local   Repository[T]
	remote  Repository[T]
	handoff Handoff
	key     func(T) int
	combine func(existing, incoming T) T
	logger  *zap.Logger

	owner  models.Owner
	items  []T
	loaded bool
}

func (c *collection[T]) repository(owner models.Owner) Repository[T] {
	if owner.Authenticated() {
		return c.remote
	}
	return c.local
}

// switchOwner discards the in-memory collection and loads the one persisted
// for owner. A signed-in owner without a document gets an empty one.
func (c *collection[T]) switchOwner(ctx context.Context, owner models.Owner) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if owner == c.owner && c.loaded {
		return nil
	}
	if !owner.Authenticated() && owner.SessionID == "" {
		return ErrNoOwner
	}

	repo := c.repository(owner)
	items, exists, err := repo.Load(ctx, owner)
	if err != nil {
		c.logger.Error("failed to load "+c.kind, zap.String("owner", owner.Scope()), zap.Error(err))
		return fmt.Errorf("load %s: %w", c.kind, err)
	}

	write := owner.Authenticated() && !exists
	if items == nil {
		items = []T{}
	}

	signingIn := owner.Authenticated() && !c.owner.Authenticated() && c.loaded &&
		c.owner.SessionID == owner.SessionID
	var consumed bool
	if signingIn {
		items, consumed = apply(c.handoff, c.items, items, c.key, c.combine)
		write = write || consumed
	}

	if write {
		if err := repo.Save(ctx, owner, items); err != nil {
			c.logger.Error("failed to initialise "+c.kind, zap.String("owner", owner.Scope()), zap.Error(err))
			return fmt.Errorf("save %s: %w", c.kind, err)
		}
	}

	// merged guest items now live in the user's document; the guest scope
	// must not hand them over again on the next sign-in
	if consumed && c.local != nil {
		if err := c.local.Save(ctx, c.owner, []T{}); err != nil {
			c.logger.Warn("failed to clear merged guest "+c.kind,
				zap.String("owner", c.owner.Scope()), zap.Error(err))
		}
	}

	c.owner = owner
	c.items = items
	c.loaded = true
	return nil
}

// mutate applies fn to the current collection and persists the result. fn
// reports whether it changed anything; unchanged collections are not written.
func (c *collection[T]) mutate(ctx context.Context, op string, fn func(items []T) ([]T, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return ErrNoOwner
	}

	current := c.items
	if c.owner.Authenticated() {
		latest, _, err := c.remote.Load(ctx, c.owner)
		if err != nil {
			c.logger.Error("failed to read "+c.kind+" before "+op,
				zap.String("owner", c.owner.Scope()), zap.Error(err))
			return fmt.Errorf("%s: load %s: %w", op, c.kind, err)
		}
		current = latest
	}

	updated, changed := fn(clone(current))
	if !changed {
		if c.owner.Authenticated() {
			c.items = current
		}
		return nil
	}

	if err := c.repository(c.owner).Save(ctx, c.owner, updated); err != nil {
		c.logger.Error("failed to "+op,
			zap.String("owner", c.owner.Scope()), zap.Error(err))
		return fmt.Errorf("%s: save %s: %w", op, c.kind, err)
	}

	c.items = updated
	return nil
}

// reset persists an empty collection without reading the current one
func (c *collection[T]) reset(ctx context.Context, op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return ErrNoOwner
	}

	empty := []T{}
	if err := c.repository(c.owner).Save(ctx, c.owner, empty); err != nil {
		c.logger.Error("failed to "+op, zap.String("owner", c.owner.Scope()), zap.Error(err))
		return fmt.Errorf("%s: save %s: %w", op, c.kind, err)
	}
	c.items = empty
	return nil
}

func (c *collection[T]) snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.items)
}

func (c *collection[T]) contains(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return indexOf(c.items, id, c.key) >= 0
}

func (c *collection[T]) currentOwner() models.Owner {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

func indexOf[T any](items []T, id int, key func(T) int) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}
