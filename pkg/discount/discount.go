// Package discount derives the stable daily markdown shown for every product.
//
// A discount depends only on the calendar day and the product id, so any
// process computing it for the same (day, product) pair gets the same
// percentage. Results are memoized in a key-value store under
// discount_<day>_<product>; the cache only saves rehashing, correctness never
// depends on it.
package discount

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/kv"
	"snatchx.shop/storefront/pkg/models"
)

const (
	MinPercent = 20
	MaxPercent = 80

	KeyPrefix = "discount_"
	DayLayout = "Mon Jan 02 2006"
)

// Deriver computes and memoizes daily discounts
type Deriver struct {
	cache  kv.Store
	logger *zap.Logger
}

func NewDeriver(cache kv.Store, logger *zap.Logger) *Deriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deriver{cache: cache, logger: logger}
}

// DiscountFor returns the discount percentage in [MinPercent, MaxPercent] for
// productID on the calendar day of asOf (in asOf's location). It never fails:
// cache errors are logged and the value is recomputed.
func (d *Deriver) DiscountFor(ctx context.Context, productID string, asOf time.Time) int {
	day := DayKey(asOf)
	numeric := NumericProjection(productID)
	key := CacheKey(day, numeric)

	if d.cache != nil {
		if pct, ok := d.lookup(ctx, key); ok {
			return pct
		}
	}

	pct := Compute(day, numeric)

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, strconv.Itoa(pct)); err != nil {
			d.logger.Warn("failed to cache discount", zap.String("key", key), zap.Error(err))
		}
		d.purgeStale(ctx, day)
	}

	return pct
}

// DiscountForProduct is DiscountFor keyed by a catalog product
func (d *Deriver) DiscountForProduct(ctx context.Context, product *models.Product, asOf time.Time) int {
	return d.DiscountFor(ctx, product.Key(), asOf)
}

func (d *Deriver) lookup(ctx context.Context, key string) (int, bool) {
	raw, err := d.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			d.logger.Warn("failed to read cached discount", zap.String("key", key), zap.Error(err))
		}
		return 0, false
	}

	pct, err := strconv.Atoi(raw)
	if err != nil || pct < MinPercent || pct > MaxPercent {
		return 0, false
	}
	return pct, true
}

// purgeStale drops every cached discount that does not belong to today
func (d *Deriver) purgeStale(ctx context.Context, day string) {
	keys, err := d.cache.Keys(ctx, KeyPrefix)
	if err != nil {
		d.logger.Warn("failed to list cached discounts", zap.Error(err))
		return
	}

	current := KeyPrefix + day + "_"
	var stale []string
	for _, key := range keys {
		if !strings.HasPrefix(key, current) {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return
	}

	if err := d.cache.Delete(ctx, stale...); err != nil {
		d.logger.Warn("failed to purge stale discounts", zap.Int("count", len(stale)), zap.Error(err))
	}
}

// DayKey formats the calendar day of t, e.g. "Sat Oct 17 2026"
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

func CacheKey(day string, numericID int64) string {
	return KeyPrefix + day + "_" + strconv.FormatInt(numericID, 10)
}

// NumericProjection keeps only the digits of id. An id without digits
// projects to 0.
func NumericProjection(id string) int64 {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return 0
	}
	// keep the trailing 18 digits so the value always fits in an int64
	if len(digits) > 18 {
		digits = digits[len(digits)-18:]
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Compute derives the discount for a day key and numeric product id
func Compute(day string, numericID int64) int {
	h := int64(hash(day + strconv.FormatInt(numericID, 10)))
	if h < 0 {
		h = -h
	}
	return int(h%(MaxPercent-MinPercent+1)) + MinPercent
}

// hash is the 31-multiplier rolling string hash over 32-bit integers
func hash(seed string) int32 {
	var h int32
	for _, c := range []byte(seed) {
		h = int32(c) + (h << 5) - h
	}
	return h
}

// UntilReset returns how long the current day's discounts remain valid
func UntilReset(now time.Time) time.Duration {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return midnight.Sub(now)
}
