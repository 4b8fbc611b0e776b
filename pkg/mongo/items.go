package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"snatchx.shop/storefront/pkg/models"
	"snatchx.shop/storefront/pkg/store"
)

type itemsDocument[T any] struct {
	UserID    string    `bson:"_id"`
	Items     []T       `bson:"items"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ItemsRepository stores one {_id: userId, items: [...]} document per
// signed-in user. Save replaces the whole array.
type ItemsRepository[T any] struct {
	collection *mongo.Collection
}

func NewItemsRepository[T any](db *mongo.Database, collection string) *ItemsRepository[T] {
	return &ItemsRepository[T]{collection: db.Collection(collection)}
}

// NewCartRepository returns the remote cart repository
func NewCartRepository(db *mongo.Database) store.Repository[models.LineItem] {
	return NewItemsRepository[models.LineItem](db, CartsCollection)
}

// NewWishlistRepository returns the remote wishlist repository
func NewWishlistRepository(db *mongo.Database) store.Repository[models.Product] {
	return NewItemsRepository[models.Product](db, WishlistsCollection)
}

func (r *ItemsRepository[T]) Load(ctx context.Context, owner models.Owner) ([]T, bool, error) {
	if !owner.Authenticated() {
		return nil, false, store.ErrNoOwner
	}

	var doc itemsDocument[T]
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: owner.UserID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s for %s: %w", r.collection.Name(), owner.UserID, err)
	}

	if doc.Items == nil {
		doc.Items = []T{}
	}
	return doc.Items, true, nil
}

func (r *ItemsRepository[T]) Save(ctx context.Context, owner models.Owner, items []T) error {
	if !owner.Authenticated() {
		return store.ErrNoOwner
	}
	if items == nil {
		items = []T{}
	}

	doc := itemsDocument[T]{
		UserID:    owner.UserID,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: owner.UserID}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s for %s: %w", r.collection.Name(), owner.UserID, err)
	}
	return nil
}
