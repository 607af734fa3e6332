package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"unicode"

	"github.com/myhome-api/internal/mailer"
	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/storage"
	"github.com/myhome-api/pkg/objectkey"
)

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrUserInactive     = errors.New("account is not active")
	ErrNoProfilePicture = errors.New("no profile picture set")
	ErrPasswordPolicy   = errors.New("password does not meet requirements")
)

// Enqueuer hands an email off for asynchronous delivery.
type Enqueuer interface {
	Enqueue(to, subject, html string)
}

// UserService handles the user record lifecycle: registration, activation,
// profile updates, password reset and account deletion.
type UserService struct {
	users     *repository.UserRepository
	wishlist  *repository.WishlistRepository
	auth      *AuthService
	store     storage.ObjectStore
	mail      Enqueuer
	templates mailer.Templates
}

// NewUserService creates a new UserService
func NewUserService(
	users *repository.UserRepository,
	wishlist *repository.WishlistRepository,
	auth *AuthService,
	store storage.ObjectStore,
	mail Enqueuer,
	templates mailer.Templates,
) *UserService {
	return &UserService{
		users:     users,
		wishlist:  wishlist,
		auth:      auth,
		store:     store,
		mail:      mail,
		templates: templates,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=100"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// UpdateProfileRequest carries the patchable profile fields; only supplied
// fields change.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

// Register creates an inactive user and queues the verification email.
// The plaintext password is never stored.
func (s *UserService) Register(req *RegisterRequest) (*models.User, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	exists, err := s.users.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		IsActive:     false,
		Plan:         models.PlanBasic,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.sendVerificationEmail(user)
	return user, nil
}

// Activate redeems an email-verification token
func (s *UserService) Activate(token string) error {
	email, err := s.auth.VerifyToken(token, PurposeVerify)
	if err != nil {
		return err
	}
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user.IsActive {
		return nil
	}
	return s.users.UpdateFields(user.ID, map[string]interface{}{"is_active": true})
}

// RequestPasswordReset queues a reset email for an existing active account.
// The HTTP layer answers identically whether or not this succeeds so the
// endpoint cannot be used to probe for registered emails.
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrUserInactive
	}

	token, err := s.auth.IssueToken(user.Email, PurposeReset)
	if err != nil {
		return err
	}
	subject, html, err := s.templates.ResetPasswordEmail(user.Name, token, s.auth.jwtConfig.ResetTTLMinutes)
	if err != nil {
		return err
	}
	s.mail.Enqueue(user.Email, subject, html)
	return nil
}

// ResetPassword redeems a reset token and replaces the password hash
func (s *UserService) ResetPassword(token, newPassword string) error {
	email, err := s.auth.VerifyToken(token, PurposeReset)
	if err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrUserInactive
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateFields(user.ID, map[string]interface{}{"password_hash": hash})
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(id uint) (*models.User, error) {
	return s.users.GetByID(id)
}

// List retrieves all users
func (s *UserService) List() ([]models.User, error) {
	return s.users.List()
}

// UpdateProfile applies the supplied fields and returns the updated record
func (s *UserService) UpdateProfile(id uint, req *UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}
	return s.users.GetByID(id)
}

// AttachProfilePicture uploads a new picture, points the record at it and
// drops the previous object best-effort.
func (s *UserService) AttachProfilePicture(ctx context.Context, user *models.User, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := objectkey.ForProfilePicture(user.ID, file.Filename)
	if err := s.store.Upload(ctx, key, contentTypeOf(file), f); err != nil {
		return "", err
	}
	if err := s.users.UpdateFields(user.ID, map[string]interface{}{"profile_picture": key}); err != nil {
		return "", err
	}

	if old := user.ProfilePicture; old != "" {
		if err := s.store.Delete(ctx, old); err != nil {
			log.Printf("user: failed to delete replaced profile picture %s: %v", old, err)
		}
	}
	return key, nil
}

// ProfilePicture reads a user's profile picture from the object store
func (s *UserService) ProfilePicture(ctx context.Context, id uint) ([]byte, string, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if user.ProfilePicture == "" {
		return nil, "", ErrNoProfilePicture
	}
	return s.store.Download(ctx, user.ProfilePicture)
}

// Delete removes the account. The profile picture and wishlist entries go
// first, best-effort; the record deletion is what decides success.
func (s *UserService) Delete(ctx context.Context, user *models.User) error {
	if user.ProfilePicture != "" {
		if err := s.store.Delete(ctx, user.ProfilePicture); err != nil {
			log.Printf("user: failed to delete profile picture %s: %v", user.ProfilePicture, err)
		}
	}
	if err := s.wishlist.DeleteByUser(user.ID); err != nil {
		log.Printf("user: failed to clear wishlist for %d: %v", user.ID, err)
	}
	return s.users.Delete(user.ID)
}

func (s *UserService) sendVerificationEmail(user *models.User) {
	token, err := s.auth.IssueToken(user.Email, PurposeVerify)
	if err != nil {
		log.Printf("user: failed to issue verification token for %s: %v", user.Email, err)
		return
	}
	subject, html, err := s.templates.VerificationEmail(user.Name, token, s.auth.jwtConfig.VerifyTTLHours)
	if err != nil {
		log.Printf("user: failed to render verification email for %s: %v", user.Email, err)
		return
	}
	s.mail.Enqueue(user.Email, subject, html)
}

// validatePassword enforces the password policy: at least 8 characters with
// a digit, an uppercase and a lowercase letter.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters long", ErrPasswordPolicy)
	}
	var hasDigit, hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasDigit {
		return fmt.Errorf("%w: must include a number", ErrPasswordPolicy)
	}
	if !hasUpper {
		return fmt.Errorf("%w: must include an uppercase letter", ErrPasswordPolicy)
	}
	if !hasLower {
		return fmt.Errorf("%w: must include a lowercase letter", ErrPasswordPolicy)
	}
	return nil
}

func contentTypeOf(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
