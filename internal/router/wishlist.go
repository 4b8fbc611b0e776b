package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/models"
	"snatchx.shop/storefront/pkg/store"
)

type toggleResponse struct {
	Liked    bool          `json:"liked"`
	Wishlist []ProductView `json:"wishlist"`
}

func (h *Handler) loadWishlist(c *gin.Context) (*store.Wishlist, bool) {
	wishlist, err := h.stores.Wishlist(c.Request.Context(), currentOwner(c))
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to load wishlist")
		return nil, false
	}
	return wishlist, true
}

func (h *Handler) wishlistView(c *gin.Context, wishlist *store.Wishlist) []ProductView {
	return h.quoteAll(c.Request.Context(), wishlist.Items())
}

func (h *Handler) GetWishlist(c *gin.Context) {
	wishlist, ok := h.loadWishlist(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(h.wishlistView(c, wishlist)))
}

func (h *Handler) AddToWishlist(c *gin.Context) {
	var req models.WishlistRequest
	if !bindJSON(c, &req) {
		return
	}
	product, ok := h.product(c, req.ProductID)
	if !ok {
		return
	}
	wishlist, ok := h.loadWishlist(c)
	if !ok {
		return
	}

	if err := wishlist.AddToWishlist(c.Request.Context(), *product); err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to update wishlist")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.wishlistView(c, wishlist)))
}

func (h *Handler) ToggleWishlist(c *gin.Context) {
	var req models.WishlistRequest
	if !bindJSON(c, &req) {
		return
	}
	product, ok := h.product(c, req.ProductID)
	if !ok {
		return
	}
	wishlist, ok := h.loadWishlist(c)
	if !ok {
		return
	}

	liked, err := wishlist.ToggleWishlist(c.Request.Context(), *product)
	if err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to update wishlist")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(toggleResponse{
		Liked:    liked,
		Wishlist: h.wishlistView(c, wishlist),
	}))
}

func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	wishlist, ok := h.loadWishlist(c)
	if !ok {
		return
	}

	if err := wishlist.RemoveFromWishlist(c.Request.Context(), id); err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to update wishlist")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.wishlistView(c, wishlist)))
}

func (h *Handler) ClearWishlist(c *gin.Context) {
	wishlist, ok := h.loadWishlist(c)
	if !ok {
		return
	}

	if err := wishlist.ClearWishlist(c.Request.Context()); err != nil {
		h.respondError(c, err, http.StatusBadGateway, "Failed to clear wishlist")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.wishlistView(c, wishlist)))
}
