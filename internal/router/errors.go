package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/auth"
	"snatchx.shop/storefront/pkg/catalog"
	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/orders"
	"snatchx.shop/storefront/pkg/store"
)

// respondError maps known failures to their status and code. Anything else
// is answered with fallback: 502 when a remote store or the catalog failed,
// 500 for unexpected errors.
func (h *Handler) respondError(c *gin.Context, err error, fallback int, message string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, global.CodedError("Product not found", "id", global.CodeNotFound))
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, global.CodedError("Account not found", "user", global.CodeNotFound))
	case errors.Is(err, orders.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, global.CodedError("Sign in to continue", "authorization", global.CodeAuthRequired))
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, global.CodedError("Invalid email or password", "credentials", global.CodeInvalidCredentials))
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, global.CodedError("Invalid or expired token", "authorization", global.CodeInvalidToken))
	case errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, global.CodedError("Email already registered", "email", global.CodeDuplicateEmail))
	case errors.Is(err, orders.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, global.CodedError("Cart is empty", "cart", global.CodeEmptyCart))
	case errors.Is(err, store.ErrNoOwner):
		c.JSON(http.StatusBadRequest, global.CodedError("Missing session", "session", global.CodeValidation))
	default:
		h.logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		code := ""
		if fallback == http.StatusBadGateway {
			code = global.CodeUpstream
		}
		c.JSON(fallback, global.CodedError(message, "request", code))
	}
}
