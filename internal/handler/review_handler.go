package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/myhome-api/internal/middleware"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
	"github.com/myhome-api/pkg/response"
)

// ReviewHandler handles property reviews
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create posts a review for a property
// POST /api/v1/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		PropertyID uint   `json:"property_id" binding:"required"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Create(user.ID, req.PropertyID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPropertyNotFound):
			response.NotFound(c, "property not found")
		case errors.Is(err, service.ErrRatingOutOfRange),
			errors.Is(err, service.ErrCommentTooShort):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "failed to create review")
		}
		return
	}

	response.Created(c, review)
}

// ListForProperty returns every review posted for a property
// GET /api/v1/properties/:id/reviews
func (h *ReviewHandler) ListForProperty(c *gin.Context) {
	propertyID, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	reviews, err := h.reviewService.ListByProperty(propertyID)
	if err != nil {
		response.InternalError(c, "failed to list reviews")
		return
	}
	response.Success(c, reviews)
}

// ListMine returns the caller's own reviews
// GET /api/v1/users/me/reviews
func (h *ReviewHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)

	reviews, err := h.reviewService.ListByUser(user.ID)
	if err != nil {
		response.InternalError(c, "failed to list reviews")
		return
	}
	response.Success(c, reviews)
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/reviews", auth, h.Create)
	rg.GET("/properties/:id/reviews", h.ListForProperty)
	rg.GET("/users/me/reviews", auth, h.ListMine)
}
