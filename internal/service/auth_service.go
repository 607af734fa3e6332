package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/myhome-api/internal/config"
	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Token purposes. A token issued for one purpose never validates for another.
const (
	PurposeAccess = "access"
	PurposeVerify = "verify"
	PurposeReset  = "reset"
)

// TokenClaims is the signed payload: subject is the user's email, purpose
// constrains how the token may be used.
type TokenClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// AuthService turns plaintext secrets into verifiable artifacts and issues
// the three kinds of bearer tokens (access, verify, reset).
type AuthService struct {
	users     *repository.UserRepository
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(users *repository.UserRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		users:     users,
		jwtConfig: jwtConfig,
	}
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// HashPassword hashes a plaintext password with bcrypt
func (s *AuthService) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword verifies a plaintext password against a stored hash.
// Returns false on mismatch, never an error.
func (s *AuthService) CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IssueToken signs a token for the subject with the purpose-specific TTL
func (s *AuthService) IssueToken(subject, purpose string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttlFor(purpose))),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "myhome-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

// VerifyToken validates a token and returns its subject. Every decode
// failure (bad signature, malformed, expired, wrong purpose) collapses into
// ErrInvalidToken so callers cannot tell them apart.
func (s *AuthService) VerifyToken(tokenString, purpose string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.Purpose != purpose || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Login authenticates a user and returns an access token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(req *LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.Email, PurposeAccess)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtConfig.AccessTTLHours * 3600,
	}, nil
}

// CurrentUser resolves a bearer access token to its user record. Callers can
// distinguish an invalid token (ErrInvalidToken) from a valid token whose
// subject no longer exists (repository.ErrUserNotFound).
func (s *AuthService) CurrentUser(tokenString string) (*models.User, error) {
	email, err := s.VerifyToken(tokenString, PurposeAccess)
	if err != nil {
		return nil, err
	}
	return s.users.GetByEmail(email)
}

func (s *AuthService) ttlFor(purpose string) time.Duration {
	switch purpose {
	case PurposeVerify:
		return time.Duration(s.jwtConfig.VerifyTTLHours) * time.Hour
	case PurposeReset:
		return time.Duration(s.jwtConfig.ResetTTLMinutes) * time.Minute
	default:
		return time.Duration(s.jwtConfig.AccessTTLHours) * time.Hour
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
