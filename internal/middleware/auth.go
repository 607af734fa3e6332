package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
	"github.com/myhome-api/pkg/response"
)

// ContextKeyUser is the key for the resolved user in gin context
const ContextKeyUser = "current_user"

// AuthMiddleware validates the bearer access token and resolves it to a user
// record. An invalid or expired token yields 401; a valid token whose
// subject no longer exists yields 404.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(parts[1])
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				response.NotFound(c, "user not found")
			} else {
				response.Unauthorized(c, "invalid or expired token")
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser gets the authenticated user from the gin context. It is only
// meaningful behind AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	return v.(*models.User)
}
