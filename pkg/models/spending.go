package models

import "github.com/shopspring/decimal"

// CategorySpend aggregates what a user bought in one product category
type CategorySpend struct {
	Category string          `json:"category"`
	Units    int             `json:"units"`
	Spent    decimal.Decimal `json:"spent"`
}
