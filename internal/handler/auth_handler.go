package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/myhome-api/internal/middleware"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
	"github.com/myhome-api/pkg/response"
)

// AuthHandler handles registration, login and the token-redemption flows
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "email already registered")
			return
		}
		if errors.Is(err, service.ErrPasswordPolicy) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"plan":  user.Plan,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "incorrect email or password")
			return
		}
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, token)
}

// VerifyEmail redeems an email-verification token
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.Activate(req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to verify email")
		return
	}

	response.Success(c, gin.H{"message": "email verified"})
}

// PasswordRecovery queues a password-reset email. The reply is identical
// whether or not the address is registered.
// POST /api/v1/auth/password-recovery
func (h *AuthHandler) PasswordRecovery(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.RequestPasswordReset(req.Email); err != nil {
		middleware.LogInfo("password recovery for %s not sent: %v", req.Email, err)
	}

	response.Success(c, gin.H{"message": "if the account exists, a reset email has been sent"})
}

// ResetPassword redeems a reset token and sets a new password
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.ResetPassword(req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			response.Unauthorized(c, "invalid or expired token")
		case errors.Is(err, service.ErrPasswordPolicy):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserInactive):
			response.BadRequest(c, "account is not active")
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			response.InternalError(c, "failed to reset password")
		}
		return
	}

	response.Success(c, gin.H{"message": "password reset successful"})
}

// RegisterRoutes registers auth routes; rateLimit guards the endpoints that
// take credentials.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc) {
	auth := rg.Group("/auth")
	auth.Use(rateLimit)
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/password-recovery", h.PasswordRecovery)
		auth.POST("/reset-password", h.ResetPassword)
	}
}
