package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myhome-api/internal/middleware"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
	"github.com/myhome-api/pkg/response"
)

// UserHandler handles account and profile endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns all registered users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		response.InternalError(c, "failed to list users")
		return
	}
	response.Success(c, users)
}

// Me returns the authenticated user's profile
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	response.Success(c, middleware.CurrentUser(c))
}

// UpdateMe patches the authenticated user's profile
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, &req)
	if err != nil {
		response.InternalError(c, "failed to update profile")
		return
	}
	response.Success(c, updated)
}

// DeleteMe removes the authenticated user's account together with their
// profile picture and wishlist
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.userService.Delete(c.Request.Context(), user); err != nil {
		response.InternalError(c, "failed to delete account")
		return
	}
	response.NoContent(c)
}

// UploadPicture replaces the authenticated user's profile picture
// POST /api/v1/users/me/picture
func (h *UserHandler) UploadPicture(c *gin.Context) {
	user := middleware.CurrentUser(c)

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	key, err := h.userService.AttachProfilePicture(c.Request.Context(), user, file)
	if err != nil {
		response.InternalError(c, "failed to upload picture")
		return
	}
	response.Success(c, gin.H{"profile_picture": key})
}

// Picture streams a user's profile picture bytes
// GET /api/v1/users/:id/picture
func (h *UserHandler) Picture(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	data, contentType, err := h.userService.ProfilePicture(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrNoProfilePicture):
			response.NotFound(c, "user has no profile picture")
		default:
			response.InternalError(c, "failed to fetch picture")
		}
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// Get returns a user's public profile
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to get user")
		return
	}
	response.Success(c, user)
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/me", auth, h.Me)
		users.PATCH("/me", auth, h.UpdateMe)
		users.DELETE("/me", auth, h.DeleteMe)
		users.POST("/me/picture", auth, h.UploadPicture)
		users.GET("/:id", h.Get)
		users.GET("/:id/picture", h.Picture)
	}
}
