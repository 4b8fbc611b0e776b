package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the stored lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Order Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

const (
	MinShippingDays = 2
	MaxShippingDays = 4
)

// OrderItem is the snapshot of a line item at checkout time. Prices are
// frozen here and never recomputed.
type OrderItem struct {
	LineItem
	DiscountPercent int             `json:"discount_percent"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// Order is an immutable checkout record. Only Status may change after
// creation, and the status shown to customers is derived by Present.
type Order struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"order_number"`
	UserID       string          `json:"user_id"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	Status       OrderStatus     `json:"status"`
	ShippingDays int             `json:"shipping_days"`
}

// OrderView is the read-side presentation of an order
type OrderView struct {
	Order
	StoredStatus OrderStatus `json:"stored_status"`
	DeliveryDate time.Time   `json:"delivery_date"`
	IsDelivered  bool        `json:"is_delivered"`
	ItemCount    int         `json:"item_count"`
}

// DeliveryDate returns CreatedAt plus the shipping days
func (o *Order) DeliveryDate() time.Time {
	return o.CreatedAt.AddDate(0, 0, o.ShippingDays)
}

// Present derives the customer-facing view at now. Once now is past the
// delivery date the order reads as Delivered whatever the stored status
// says; before that the stored status is authoritative. Must be called on
// every read.
func (o *Order) Present(now time.Time) OrderView {
	deliveryDate := o.DeliveryDate()
	delivered := now.After(deliveryDate)

	view := OrderView{
		Order:        *o,
		StoredStatus: o.Status,
		DeliveryDate: deliveryDate,
		IsDelivered:  delivered,
		ItemCount:    o.GetItemCount(),
	}
	if delivered {
		view.Status = OrderStatusDelivered
	}
	return view
}

// GetItemCount returns the total number of units in the order
func (o *Order) GetItemCount() int {
	var count int
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// CalculateTotal sums the frozen item subtotals
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func GenerateOrderNumber(now time.Time) string {
	// Format: ORD-YYYYMMDD-HHMMSS-NNN
	return fmt.Sprintf("ORD-%s-%03d",
		now.Format("20060102-150405"),
		now.Nanosecond()/1e6,
	)
}
