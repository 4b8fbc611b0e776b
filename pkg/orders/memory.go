package orders

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"snatchx.shop/storefront/pkg/models"
)

// MemoryRepository keeps orders in process, for tests and local runs
type MemoryRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Insert(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.ID == "" {
		order.ID = bson.NewObjectID().Hex()
	}
	m.orders = append(m.orders, *order)
	return nil
}

func (m *MemoryRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) CategorySpending(ctx context.Context, userID string) ([]models.CategorySpend, error) {
	orders, err := m.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CategorySpending(orders), nil
}

// CategorySpending groups ordered units and spend by product category,
// biggest spend first
func CategorySpending(orders []models.Order) []models.CategorySpend {
	index := map[string]int{}
	var spending []models.CategorySpend
	for _, order := range orders {
		for _, item := range order.Items {
			i, ok := index[item.Category]
			if !ok {
				i = len(spending)
				index[item.Category] = i
				spending = append(spending, models.CategorySpend{Category: item.Category, Spent: decimal.Zero})
			}
			spending[i].Units += item.Quantity
			spending[i].Spent = spending[i].Spent.Add(item.Subtotal)
		}
	}

	sort.SliceStable(spending, func(i, j int) bool {
		if c := spending[i].Spent.Cmp(spending[j].Spent); c != 0 {
			return c > 0
		}
		return spending[i].Category < spending[j].Category
	})
	return spending
}
