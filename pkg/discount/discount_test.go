package discount

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snatchx.shop/storefront/pkg/kv"
	"snatchx.shop/storefront/pkg/models"
)

func TestDiscountForIsStableWithinADay(t *testing.T) {
	ctx := context.Background()
	cache := kv.NewMemory()
	d := NewDeriver(cache, nil)

	morning := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 17, 23, 59, 59, 0, time.UTC)

	for id := 0; id < 200; id++ {
		productID := strconv.Itoa(id)
		first := d.DiscountFor(ctx, productID, morning)
		assert.Equal(t, first, d.DiscountFor(ctx, productID, morning))
		assert.Equal(t, first, d.DiscountFor(ctx, productID, evening))
		// a cold cache recomputes the same value
		assert.Equal(t, first, NewDeriver(kv.NewMemory(), nil).DiscountFor(ctx, productID, evening))
	}
}

func TestDiscountRange(t *testing.T) {
	ctx := context.Background()
	d := NewDeriver(nil, nil)
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 365; i++ {
		asOf := day.AddDate(0, 0, i)
		for _, id := range []string{"0", "1", "7", "20", "99999", "sku-42", "", "abc"} {
			pct := d.DiscountFor(ctx, id, asOf)
			assert.GreaterOrEqual(t, pct, MinPercent)
			assert.LessOrEqual(t, pct, MaxPercent)
		}
	}
}

func TestDiscountAcrossDayBoundary(t *testing.T) {
	ctx := context.Background()
	cache := kv.NewMemory()
	d := NewDeriver(cache, nil)

	today := time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)
	tomorrow := today.Add(2 * time.Hour)

	first := d.DiscountFor(ctx, "7", today)
	assert.Equal(t, Compute(DayKey(today), 7), first)

	next := d.DiscountFor(ctx, "7", tomorrow)
	assert.Equal(t, Compute(DayKey(tomorrow), 7), next)
	assert.Equal(t, next, d.DiscountFor(ctx, "7", tomorrow.Add(time.Hour)))

	// yesterday's entries are purged on the first computation of the new day
	keys, err := cache.Keys(ctx, KeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{CacheKey(DayKey(tomorrow), 7)}, keys)
}

func TestDiscountUsesCachedValue(t *testing.T) {
	ctx := context.Background()
	cache := kv.NewMemory()
	d := NewDeriver(cache, nil)
	asOf := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Set(ctx, CacheKey(DayKey(asOf), 7), "25"))
	assert.Equal(t, 25, d.DiscountFor(ctx, "7", asOf))

	// out-of-range or garbage entries are ignored
	require.NoError(t, cache.Set(ctx, CacheKey(DayKey(asOf), 8), "95"))
	assert.Equal(t, Compute(DayKey(asOf), 8), d.DiscountFor(ctx, "8", asOf))
	require.NoError(t, cache.Set(ctx, CacheKey(DayKey(asOf), 9), "x"))
	assert.Equal(t, Compute(DayKey(asOf), 9), d.DiscountFor(ctx, "9", asOf))
}

func TestNumericProjection(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"7", 7},
		{"sku-42", 42},
		{"", 0},
		{"abc", 0},
		{"0", 0},
		{"007", 7},
		{"1a2b3", 123},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NumericProjection(tt.in))
		})
	}

	// empty and zero ids share a cache key and a value
	assert.Equal(t, CacheKey("d", NumericProjection("")), CacheKey("d", NumericProjection("0")))
}

func TestPricing(t *testing.T) {
	p := NewPricing(DefaultConversionRate)

	assert.True(t, p.OriginalPrice(20).Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "1125.00", p.DiscountedPrice(20, 25).StringFixed(2))
	assert.Equal(t, "22.28", p.DiscountedPrice(0.99, 70).StringFixed(2))
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	cache := kv.NewMemory()
	asOf := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Set(ctx, CacheKey(DayKey(asOf), 7), "25"))

	q := &Quoter{Deriver: NewDeriver(cache, nil), Pricing: NewPricing(0)}
	quote := q.Quote(ctx, &models.Product{ID: 7, Price: 20}, asOf)

	assert.Equal(t, 25, quote.Percent)
	assert.Equal(t, "1500.00", quote.OriginalPrice.StringFixed(2))
	assert.Equal(t, "1125.00", quote.DiscountedPrice.StringFixed(2))
}

func TestUntilReset(t *testing.T) {
	now := time.Date(2026, 10, 17, 22, 30, 15, 0, time.UTC)
	assert.Equal(t, time.Hour+29*time.Minute+45*time.Second, UntilReset(now))

	midnight := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24*time.Hour, UntilReset(midnight))
}
