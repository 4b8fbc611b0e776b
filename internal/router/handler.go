package router

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/ai"
	"snatchx.shop/storefront/pkg/auth"
	"snatchx.shop/storefront/pkg/catalog"
	"snatchx.shop/storefront/pkg/clock"
	"snatchx.shop/storefront/pkg/discount"
	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/models"
	"snatchx.shop/storefront/pkg/orders"
	"snatchx.shop/storefront/pkg/store"
)

const relatedLimit = 4

// Authenticator signs users up and in and resolves bearer tokens
type Authenticator interface {
	Signup(ctx context.Context, email, password, name string) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Authenticate(token string) (string, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// Deps are the collaborators every handler is built from
type Deps struct {
	Catalog  catalog.Reader
	Quoter   *discount.Quoter
	Stores   *store.Backends
	Recorder *orders.Recorder
	Spending orders.SpendingReporter
	Auth     Authenticator
	Insights *ai.Client
	Clock    clock.Clock
	// Ping checks the primary database for the health endpoint
	Ping   func(ctx context.Context) error
	Logger *zap.Logger
}

type Handler struct {
	catalog  catalog.Reader
	quoter   *discount.Quoter
	stores   *store.Backends
	recorder *orders.Recorder
	spending orders.SpendingReporter
	auth     Authenticator
	insights *ai.Client
	clock    clock.Clock
	ping     func(ctx context.Context) error
	logger   *zap.Logger
}

func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	return &Handler{
		catalog:  deps.Catalog,
		quoter:   deps.Quoter,
		stores:   deps.Stores,
		recorder: deps.Recorder,
		spending: deps.Spending,
		auth:     deps.Auth,
		insights: deps.Insights,
		clock:    clk,
		ping:     deps.Ping,
		logger:   logger.Named("http"),
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := global.WithDefaultTimer(c.Request.Context())
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
			return
		}
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

// productID parses the :id path parameter, answering 400 when it is not a
// positive integer
func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, global.CodedError("Invalid product ID format", "id", global.CodeValidation))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: global.CodeValidation},
		}))
		return false
	}
	return true
}

// product fetches id from the catalog, answering the error itself on failure
func (h *Handler) product(c *gin.Context, id int) (*models.Product, bool) {
	product, err := h.catalog.Product(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to fetch product")
		return nil, false
	}
	return product, true
}
