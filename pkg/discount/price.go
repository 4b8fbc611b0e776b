package discount

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"snatchx.shop/storefront/pkg/models"
)

// DefaultConversionRate converts catalog prices into the storefront currency
const DefaultConversionRate = 75

var hundred = decimal.NewFromInt(100)

// Pricing turns catalog prices into displayed and discounted prices
type Pricing struct {
	Rate decimal.Decimal
}

func NewPricing(rate int64) Pricing {
	if rate <= 0 {
		rate = DefaultConversionRate
	}
	return Pricing{Rate: decimal.NewFromInt(rate)}
}

// OriginalPrice is the undiscounted price in storefront currency
func (p Pricing) OriginalPrice(sourcePrice float64) decimal.Decimal {
	return decimal.NewFromFloat(sourcePrice).Mul(p.Rate)
}

// DiscountedPrice applies pct to the converted price, rounded to cents
func (p Pricing) DiscountedPrice(sourcePrice float64, pct int) decimal.Decimal {
	return p.OriginalPrice(sourcePrice).
		Mul(decimal.NewFromInt(int64(100 - pct))).
		Div(hundred).
		Round(2)
}

// Quote is the price breakdown of one product for one day
type Quote struct {
	Percent         int             `json:"discount_percent"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
}

// Quoter combines a Deriver with a Pricing
type Quoter struct {
	Deriver *Deriver
	Pricing Pricing
}

func (q *Quoter) Quote(ctx context.Context, product *models.Product, asOf time.Time) Quote {
	pct := q.Deriver.DiscountForProduct(ctx, product, asOf)
	return Quote{
		Percent:         pct,
		OriginalPrice:   q.Pricing.OriginalPrice(product.Price).Round(2),
		DiscountedPrice: q.Pricing.DiscountedPrice(product.Price, pct),
	}
}
