package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/myhome-api/internal/middleware"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
	"github.com/myhome-api/pkg/response"
)

// WishlistHandler handles the authenticated user's saved listings
type WishlistHandler struct {
	wishlistService *service.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// Add saves a property to the caller's wishlist
// POST /api/v1/wishlist
func (h *WishlistHandler) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		PropertyID uint `json:"property_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.wishlistService.Add(user.ID, req.PropertyID); err != nil {
		switch {
		case errors.Is(err, repository.ErrPropertyNotFound):
			response.NotFound(c, "property not found")
		case errors.Is(err, service.ErrAlreadyInWishlist):
			response.BadRequest(c, "property already in wishlist")
		default:
			response.InternalError(c, "failed to update wishlist")
		}
		return
	}

	response.Created(c, gin.H{"property_id": req.PropertyID})
}

// Remove drops a property from the caller's wishlist
// DELETE /api/v1/wishlist/:propertyID
func (h *WishlistHandler) Remove(c *gin.Context) {
	user := middleware.CurrentUser(c)

	propertyID, err := parseID(c.Param("propertyID"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	if err := h.wishlistService.Remove(user.ID, propertyID); err != nil {
		if errors.Is(err, repository.ErrWishlistEntryNotFound) {
			response.NotFound(c, "property not in wishlist")
			return
		}
		response.InternalError(c, "failed to update wishlist")
		return
	}

	response.NoContent(c)
}

// List returns the property ids saved by the caller
// GET /api/v1/wishlist
func (h *WishlistHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	ids, err := h.wishlistService.ListForUser(user.ID)
	if err != nil {
		response.InternalError(c, "failed to list wishlist")
		return
	}

	response.Success(c, gin.H{"property_ids": ids})
}

// RegisterRoutes registers wishlist routes; every endpoint requires auth
func (h *WishlistHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	wishlist := rg.Group("/wishlist")
	wishlist.Use(auth)
	{
		wishlist.POST("", h.Add)
		wishlist.DELETE("/:propertyID", h.Remove)
		wishlist.GET("", h.List)
	}
}
