package models

import "strconv"

// Rating represents product review statistics as reported by the catalog
type Rating struct {
	Rate  float64 `json:"rate" bson:"rate"`
	Count int     `json:"count" bson:"count"`
}

// Product represents a catalog product. Products are read-only and immutable
// for the lifetime of a session.
type Product struct {
	ID          int     `json:"id" bson:"id"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description" bson:"description"`
	Category    string  `json:"category" bson:"category"`
	Price       float64 `json:"price" bson:"price"`
	Image       string  `json:"image" bson:"image"`
	Rating      Rating  `json:"rating" bson:"rating"`
}

// Key returns the product id as a string, the form used by cache keys
func (p *Product) Key() string {
	return strconv.Itoa(p.ID)
}

// IsZero reports whether the product carries no catalog data at all
func (p *Product) IsZero() bool {
	return p.ID == 0 && p.Title == ""
}
