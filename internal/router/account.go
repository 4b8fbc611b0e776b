package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snatchx.shop/storefront/pkg/auth"
	"snatchx.shop/storefront/pkg/global"
	"snatchx.shop/storefront/pkg/models"
)

// sessionResponse is returned by signup and login. Cart and Wishlist are the
// collections the caller now sees; they are omitted when they could not be
// loaded, which never fails the sign-in itself.
type sessionResponse struct {
	*auth.Session
	Cart     *CartView     `json:"cart,omitempty"`
	Wishlist []ProductView `json:"wishlist,omitempty"`
}

type ownerCollections struct {
	Cart     *CartView     `json:"cart,omitempty"`
	Wishlist []ProductView `json:"wishlist,omitempty"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.respondError(c, err, http.StatusInternalServerError, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(h.signIn(c, session)))
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(h.signIn(c, session)))
}

// Logout moves the session's cart and wishlist back to the guest scope.
// Tokens are stateless; the client discards its own.
func (h *Handler) Logout(c *gin.Context) {
	owner := currentOwner(c)
	collections := h.switchOwner(c.Request.Context(), owner, owner.Guest())

	c.JSON(http.StatusOK, global.SuccessResponse(collections))
}

type profileResponse struct {
	*models.User
	DisplayName string `json:"display_name"`
}

// Me returns the signed-in account
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), currentOwner(c).UserID)
	if err != nil {
		h.respondError(c, err, http.StatusInternalServerError, "Failed to load account")
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(profileResponse{User: user, DisplayName: user.DisplayName()}))
}

func (h *Handler) signIn(c *gin.Context, session *auth.Session) sessionResponse {
	guest := currentOwner(c).Guest()
	user := models.UserOwner(session.User.ID.Hex(), guest.SessionID)

	collections := h.switchOwner(c.Request.Context(), guest, user)
	return sessionResponse{
		Session:  session,
		Cart:     collections.Cart,
		Wishlist: collections.Wishlist,
	}
}

// switchOwner loads from's collections and rebinds them to to, which applies
// the configured handoff when a guest signs in
func (h *Handler) switchOwner(ctx context.Context, from, to models.Owner) ownerCollections {
	var out ownerCollections

	if cart, err := h.stores.Cart(ctx, from); err != nil {
		h.logger.Warn("failed to load cart for owner switch", zap.String("owner", from.Scope()), zap.Error(err))
	} else if err := cart.SwitchOwner(ctx, to); err != nil {
		h.logger.Warn("failed to switch cart owner", zap.String("owner", to.Scope()), zap.Error(err))
	} else {
		view := h.cartView(ctx, cart)
		out.Cart = &view
	}

	if wishlist, err := h.stores.Wishlist(ctx, from); err != nil {
		h.logger.Warn("failed to load wishlist for owner switch", zap.String("owner", from.Scope()), zap.Error(err))
	} else if err := wishlist.SwitchOwner(ctx, to); err != nil {
		h.logger.Warn("failed to switch wishlist owner", zap.String("owner", to.Scope()), zap.Error(err))
	} else {
		out.Wishlist = h.quoteAll(ctx, wishlist.Items())
	}

	return out
}
