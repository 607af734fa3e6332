package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/myhome-api/internal/middleware"
	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
	"github.com/myhome-api/pkg/response"
)

// PropertyHandler handles listing CRUD. Create and update are multipart
// endpoints: scalar fields arrive as form values, the location and features
// sub-objects as JSON-encoded form values, and images as file parts.
type PropertyHandler struct {
	propertyService *service.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create handles listing creation
// POST /api/v1/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	req, err := bindCreateForm(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}
	images := form.File["images"]

	property, err := h.propertyService.Create(c.Request.Context(), user, req, images)
	if err != nil {
		var quota *service.QuotaExceededError
		if errors.As(err, &quota) {
			response.BadRequest(c, quota.Error())
			return
		}
		var partial *service.PartialUploadError
		if errors.As(err, &partial) {
			middleware.LogError("property %d created with partial images: %v", partial.PropertyID, partial)
			response.InternalError(c, partial.Error())
			return
		}
		if errors.Is(err, service.ErrValidation) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "failed to create property")
		return
	}

	response.Created(c, gin.H{"id": property.ID})
}

// List returns every listing with presigned image URLs
// GET /api/v1/properties
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.propertyService.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list properties")
		return
	}
	response.Success(c, properties)
}

// ListMine returns the caller's own listings
// GET /api/v1/users/me/properties
func (h *PropertyHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)

	properties, err := h.propertyService.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoProperties) {
			response.NotFound(c, "you have no properties yet")
			return
		}
		response.InternalError(c, "failed to list properties")
		return
	}
	response.Success(c, properties)
}

// Get returns a single listing
// GET /api/v1/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	property, err := h.propertyService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			response.NotFound(c, "property not found")
			return
		}
		response.InternalError(c, "failed to get property")
		return
	}
	response.Success(c, property)
}

// Update patches the caller's listing
// PATCH /api/v1/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	req, err := bindUpdateForm(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var newImages []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		newImages = form.File["images"]
	}

	if err := h.propertyService.Update(c.Request.Context(), id, user.ID, req, newImages); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			response.NotFound(c, "property not found")
			return
		}
		var partial *service.PartialUploadError
		if errors.As(err, &partial) {
			middleware.LogError("property %d updated with partial images: %v", partial.PropertyID, partial)
			response.InternalError(c, partial.Error())
			return
		}
		response.InternalError(c, "failed to update property")
		return
	}

	response.Success(c, gin.H{"message": "property updated"})
}

// Delete removes the caller's listing, its stored images and any wishlist
// entries that reference it
// DELETE /api/v1/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property id")
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			response.NotFound(c, "property not found")
			return
		}
		response.InternalError(c, "failed to delete property")
		return
	}

	response.NoContent(c)
}

// RegisterRoutes registers property routes
func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	properties := rg.Group("/properties")
	{
		properties.GET("", h.List)
		properties.GET("/:id", h.Get)
		properties.POST("", auth, h.Create)
		properties.PATCH("/:id", auth, h.Update)
		properties.DELETE("/:id", auth, h.Delete)
	}
	rg.GET("/users/me/properties", auth, h.ListMine)
}

func bindCreateForm(c *gin.Context) (*service.CreateRequest, error) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		return nil, errors.New("price must be a number")
	}

	req := &service.CreateRequest{
		Name:         c.PostForm("name"),
		Price:        price,
		PropertyType: c.PostForm("property_type"),
		PhoneNumber:  c.PostForm("phone_number"),
	}

	if raw := c.PostForm("property_location_details"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Location); err != nil {
			return nil, errors.New("property_location_details must be valid JSON")
		}
	}
	if raw := c.PostForm("property_features"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Features); err != nil {
			return nil, errors.New("property_features must be valid JSON")
		}
	}
	return req, nil
}

func bindUpdateForm(c *gin.Context) (*service.UpdateRequest, error) {
	req := &service.UpdateRequest{}

	if v, ok := c.GetPostForm("name"); ok {
		req.Name = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New("price must be a number")
		}
		req.Price = &price
	}
	if v, ok := c.GetPostForm("property_type"); ok {
		req.PropertyType = &v
	}
	if v, ok := c.GetPostForm("phone_number"); ok {
		req.PhoneNumber = &v
	}
	if raw, ok := c.GetPostForm("property_location_details"); ok {
		var location models.PropertyLocation
		if err := json.Unmarshal([]byte(raw), &location); err != nil {
			return nil, errors.New("property_location_details must be valid JSON")
		}
		req.Location = &location
	}
	if raw, ok := c.GetPostForm("property_features"); ok {
		var features models.PropertyFeatures
		if err := json.Unmarshal([]byte(raw), &features); err != nil {
			return nil, errors.New("property_features must be valid JSON")
		}
		req.Features = &features
	}
	return req, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
