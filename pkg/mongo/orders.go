package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"snatchx.shop/storefront/pkg/models"
)

type orderItemDocument struct {
	models.LineItem `bson:",inline"`
	DiscountPercent int             `bson:"discount_percent"`
	UnitPrice       bson.Decimal128 `bson:"unit_price"`
	Subtotal        bson.Decimal128 `bson:"subtotal"`
}

type orderDocument struct {
	ID           bson.ObjectID       `bson:"_id,omitempty"`
	OrderNumber  string              `bson:"order_number"`
	UserID       string              `bson:"user_id"`
	Items        []orderItemDocument `bson:"items"`
	TotalAmount  bson.Decimal128     `bson:"total_amount"`
	CreatedAt    time.Time           `bson:"created_at"`
	Status       string              `bson:"status"`
	ShippingDays int                 `bson:"shipping_days"`
}

func toDecimal128(d decimal.Decimal) (bson.Decimal128, error) {
	return bson.ParseDecimal128(d.String())
}

func fromDecimal128(d bson.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func newOrderDocument(order *models.Order) (*orderDocument, error) {
	total, err := toDecimal128(order.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("total amount: %w", err)
	}

	doc := &orderDocument{
		OrderNumber:  order.OrderNumber,
		UserID:       order.UserID,
		Items:        make([]orderItemDocument, 0, len(order.Items)),
		TotalAmount:  total,
		CreatedAt:    order.CreatedAt,
		Status:       string(order.Status),
		ShippingDays: order.ShippingDays,
	}
	for _, item := range order.Items {
		unit, err := toDecimal128(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("unit price of %d: %w", item.ID, err)
		}
		subtotal, err := toDecimal128(item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("subtotal of %d: %w", item.ID, err)
		}
		doc.Items = append(doc.Items, orderItemDocument{
			LineItem:        item.LineItem,
			DiscountPercent: item.DiscountPercent,
			UnitPrice:       unit,
			Subtotal:        subtotal,
		})
	}
	return doc, nil
}

func (d *orderDocument) order() (models.Order, error) {
	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s total: %w", d.ID.Hex(), err)
	}

	status := models.OrderStatus(d.Status)
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("order %s: unknown status %q", d.ID.Hex(), d.Status)
	}

	order := models.Order{
		ID:           d.ID.Hex(),
		OrderNumber:  d.OrderNumber,
		UserID:       d.UserID,
		Items:        make([]models.OrderItem, 0, len(d.Items)),
		TotalAmount:  total,
		CreatedAt:    d.CreatedAt,
		Status:       status,
		ShippingDays: d.ShippingDays,
	}
	for _, item := range d.Items {
		unit, err := fromDecimal128(item.UnitPrice)
		if err != nil {
			return models.Order{}, fmt.Errorf("order %s unit price: %w", d.ID.Hex(), err)
		}
		subtotal, err := fromDecimal128(item.Subtotal)
		if err != nil {
			return models.Order{}, fmt.Errorf("order %s subtotal: %w", d.ID.Hex(), err)
		}
		order.Items = append(order.Items, models.OrderItem{
			LineItem:        item.LineItem,
			DiscountPercent: item.DiscountPercent,
			UnitPrice:       unit,
			Subtotal:        subtotal,
		})
	}
	return order, nil
}

// OrderRepository keeps orders in the orders collection
type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection(OrdersCollection)}
}

// Insert stores order and sets its ID
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	doc, err := newOrderDocument(order)
	if err != nil {
		return err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.OrderNumber, err)
	}

	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		order.ID = id.Hex()
	}
	return nil
}

// ListByUser returns the user's orders newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	docs, err := findAll[orderDocument](ctx, r.collection,
		bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for %s: %w", userID, err)
	}

	orders := make([]models.Order, 0, len(docs))
	for i := range docs {
		order, err := docs[i].order()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
