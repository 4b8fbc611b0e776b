package ai

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"snatchx.shop/storefront/pkg/models"
)

// OrderSummary is the raw order-history digest sent to the model
type OrderSummary struct {
	OrderCount   int                    `json:"order_count"`
	ItemCount    int                    `json:"item_count"`
	TotalSpent   decimal.Decimal        `json:"total_spent"`
	AverageOrder decimal.Decimal        `json:"average_order"`
	Delivered    int                    `json:"delivered"`
	InTransit    int                    `json:"in_transit"`
	FirstOrderAt *time.Time             `json:"first_order_at,omitempty"`
	LastOrderAt  *time.Time             `json:"last_order_at,omitempty"`
	Categories   []models.CategorySpend `json:"categories"`
}

// Summarize digests presented orders, newest first as History returns them
func Summarize(orders []models.OrderView, categories []models.CategorySpend) OrderSummary {
	summary := OrderSummary{
		OrderCount:   len(orders),
		TotalSpent:   decimal.Zero,
		AverageOrder: decimal.Zero,
		Categories:   categories,
	}
	if summary.Categories == nil {
		summary.Categories = []models.CategorySpend{}
	}

	for _, order := range orders {
		summary.ItemCount += order.ItemCount
		summary.TotalSpent = summary.TotalSpent.Add(order.TotalAmount)
		if order.IsDelivered {
			summary.Delivered++
		} else {
			summary.InTransit++
		}
	}

	if len(orders) > 0 {
		last := orders[0].CreatedAt
		first := orders[len(orders)-1].CreatedAt
		summary.LastOrderAt = &last
		summary.FirstOrderAt = &first
		summary.AverageOrder = summary.TotalSpent.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}
	return summary
}

// InsightsResponse mirrors the report envelope used by every AI endpoint
type InsightsResponse struct {
	Status      string       `json:"status"`
	Data        InsightsData `json:"data"`
	GeneratedAt time.Time    `json:"generated_at"`
	AIEnabled   bool         `json:"ai_enabled"`
}

type InsightsData struct {
	RawData    OrderSummary `json:"raw_data"`
	AIInsights string       `json:"ai_insights,omitempty"`
	Summary    string       `json:"summary"`
	Error      string       `json:"error,omitempty"`
}

// OrderInsights always returns the raw summary; AI text is added when the
// client is enabled, the customer has orders and the completion succeeds
func (c *Client) OrderInsights(ctx context.Context, summary OrderSummary) *InsightsResponse {
	response := &InsightsResponse{
		Status:      "success",
		GeneratedAt: time.Now(),
		AIEnabled:   c.Enabled(),
		Data: InsightsData{
			RawData: summary,
			Summary: "Raw order history (AI insights unavailable)",
		},
	}

	if !c.Enabled() {
		return response
	}
	if summary.OrderCount == 0 {
		response.Data.Summary = "No orders yet"
		return response
	}

	aiInsights, err := c.generateCompletion(ctx, OrderInsightsSystemPrompt, formatOrderSummaryPrompt(summary))
	if err != nil {
		response.Data.Error = "AI analysis failed: " + err.Error()
		return response
	}

	response.Data.AIInsights = aiInsights
	response.Data.Summary = "AI-generated shopping insights"
	return response
}
