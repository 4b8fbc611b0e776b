package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/models"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "sid"

	ownerKey         = "owner"
	sessionCookieTTL = 30 * 24 * time.Hour
)

// TokenVerifier resolves a bearer token to a user id
type TokenVerifier interface {
	Authenticate(token string) (string, error)
}

// OwnerMiddleware works out who the request acts for. The guest session comes
// from the X-Session-ID header or the sid cookie and is minted when absent. A
// bearer token upgrades the owner to that user within the same session.
func OwnerMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sessionID, int(sessionCookieTTL.Seconds()), "/", "", false, true)
		c.Header(SessionHeader, sessionID)

		owner := models.GuestOwner(sessionID)

		if token, ok := bearerToken(c); ok {
			userID, err := tokens.Authenticate(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, global.CodedError("Invalid or expired token", "authorization", global.CodeInvalidToken))
				c.Abort()
				return
			}
			owner = models.UserOwner(userID, sessionID)
		}

		c.Set(ownerKey, owner)
		c.Next()
	}
}

// RequireUser rejects guest owners
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentOwner(c).Authenticated() {
			c.JSON(http.StatusUnauthorized, global.CodedError("Sign in to continue", "authorization", global.CodeAuthRequired))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func currentOwner(c *gin.Context) models.Owner {
	if v, ok := c.Get(ownerKey); ok {
		if owner, ok := v.(models.Owner); ok {
			return owner
		}
	}
	return models.Owner{}
}
