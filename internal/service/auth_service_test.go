package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhome-api/internal/config"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
)

func TestHashAndCheckPassword(t *testing.T) {
	e := newEnv(t)

	hash, err := e.auth.HashPassword("Secret1pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1pass", hash)

	assert.True(t, e.auth.CheckPassword("Secret1pass", hash))
	assert.False(t, e.auth.CheckPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	e := newEnv(t)

	token, err := e.auth.IssueToken("ada@example.com", service.PurposeAccess)
	require.NoError(t, err)

	subject, err := e.auth.VerifyToken(token, service.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", subject)
}

func TestTokenPurposeMismatch(t *testing.T) {
	e := newEnv(t)

	token, err := e.auth.IssueToken("ada@example.com", service.PurposeVerify)
	require.NoError(t, err)

	_, err = e.auth.VerifyToken(token, service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = e.auth.VerifyToken(token, service.PurposeReset)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestTokenTampered(t *testing.T) {
	e := newEnv(t)

	token, err := e.auth.IssueToken("ada@example.com", service.PurposeAccess)
	require.NoError(t, err)

	_, err = e.auth.VerifyToken(token+"x", service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = e.auth.VerifyToken("not-a-token", service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	auth := service.NewAuthService(users, config.JWTConfig{
		Secret:          "test-secret",
		AccessTTLHours:  192,
		VerifyTTLHours:  192,
		ResetTTLMinutes: -1,
	})

	token, err := auth.IssueToken("ada@example.com", service.PurposeReset)
	require.NoError(t, err)

	_, err = auth.VerifyToken(token, service.PurposeReset)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	e := newEnv(t)

	other := service.NewAuthService(e.users, config.JWTConfig{
		Secret:          "different-secret",
		AccessTTLHours:  192,
		VerifyTTLHours:  192,
		ResetTTLMinutes: 10,
	})

	token, err := other.IssueToken("ada@example.com", service.PurposeAccess)
	require.NoError(t, err)

	_, err = e.auth.VerifyToken(token, service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "ada@example.com", "Secret1pass")

	resp, err := e.auth.Login(&service.LoginRequest{Email: "ada@example.com", Password: "Secret1pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 192*3600, resp.ExpiresIn)

	// the issued token resolves back to the user
	user, err := e.auth.CurrentUser(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "ada@example.com", "Secret1pass")

	_, err := e.auth.Login(&service.LoginRequest{Email: "  Ada@Example.COM ", Password: "Secret1pass"})
	assert.NoError(t, err)
}

func TestLoginFailsIdentically(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "ada@example.com", "Secret1pass")

	_, err := e.auth.Login(&service.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = e.auth.Login(&service.LoginRequest{Email: "nobody@example.com", Password: "Secret1pass"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestCurrentUserGoneAfterDeletion(t *testing.T) {
	e := newEnv(t)
	user := e.createUser(t, "ada@example.com", "Secret1pass")

	token, err := e.auth.IssueToken(user.Email, service.PurposeAccess)
	require.NoError(t, err)

	require.NoError(t, e.users.Delete(user.ID))

	_, err = e.auth.CurrentUser(token)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
