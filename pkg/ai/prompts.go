package ai

import (
	"encoding/json"
	"fmt"
)

const OrderInsightsSystemPrompt = `You are a friendly personal shopping assistant for the SnatchX storefront.
Look at one customer's order history summary and write:
- what they tend to buy and how much they spend
- one or two product categories they might like next
- a short tip about upcoming deliveries if any orders are still in transit
Address the customer directly. Keep it to 2 short paragraphs. Never invent orders.`

func formatOrderSummaryPrompt(summary OrderSummary) string {
	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return fmt.Sprintf(`Here is the customer's order history summary:

%s

Prices are in rupees and already include the daily deal discount.`, string(jsonData))
}
