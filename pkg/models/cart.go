package models

// Cart models shared by the guest (key-value) and user (document) stores

// LineItem is a product plus a quantity within a cart. A cart never holds two
// line items for the same product id and never stores a quantity below 1.
type LineItem struct {
	Product  `bson:",inline"`
	Quantity int `json:"quantity" bson:"quantity"`
}

// Subtotal returns the undiscounted source price times quantity
func (li *LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
	Quantity  int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type WishlistRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
}
