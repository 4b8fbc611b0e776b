package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/ai"
	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/models"
)

func (h *Handler) Checkout(c *gin.Context) {
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	order, err := h.recorder.Checkout(c.Request.Context(), cart, currentOwner(c))
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(order.Present(h.clock.Now())))
}

func (h *Handler) GetOrders(c *gin.Context) {
	history, err := h.recorder.History(c.Request.Context(), currentOwner(c))
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(history))
}

// GetOrderInsights summarizes the caller's history and, when configured,
// asks the model for shopping insights
func (h *Handler) GetOrderInsights(c *gin.Context) {
	ctx := c.Request.Context()
	owner := currentOwner(c)

	history, err := h.recorder.History(ctx, owner)
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to fetch orders")
		return
	}

	var categories []models.CategorySpend
	if h.spending != nil {
		categories, err = h.spending.CategorySpending(ctx, owner.UserID)
		if err != nil {
			h.logger.Warn("failed to aggregate category spending", zap.String("owner", owner.Scope()), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.insights.OrderInsights(ctx, ai.Summarize(history, categories))))
}
