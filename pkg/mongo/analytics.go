package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"snatchx.shop/storefront/pkg/models"
)

type categorySpendResult struct {
	Category string          `bson:"_id"`
	Units    int             `bson:"units"`
	Spent    bson.Decimal128 `bson:"spent"`
}

// CategorySpending groups a user's ordered units and spend by product
// category, biggest spend first
func (r *OrderRepository) CategorySpending(ctx context.Context, userID string) ([]models.CategorySpend, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{
			{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$items.category"},
				{Key: "units", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
				{Key: "spent", Value: bson.D{{Key: "$sum", Value: "$items.subtotal"}}},
			}},
		},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "spent", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	results, err := aggregate[categorySpendResult](ctx, r.collection, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spending for %s: %w", userID, err)
	}

	spending := make([]models.CategorySpend, 0, len(results))
	for _, result := range results {
		spent, err := fromDecimal128(result.Spent)
		if err != nil {
			return nil, fmt.Errorf("category %s spend: %w", result.Category, err)
		}
		spending = append(spending, models.CategorySpend{
			Category: result.Category,
			Units:    result.Units,
			Spent:    spent,
		})
	}
	return spending, nil
}
