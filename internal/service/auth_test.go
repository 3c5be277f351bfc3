package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/dbtest"
	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-bytes"

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	auth := NewAuthService(repository.NewUserRepository(database), testSecret, time.Hour, false)

	user, err := auth.Register(ctx, " Founder@Example.com ", "Ada", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "founder@example.com", user.Email)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	_, err = auth.Register(ctx, "founder@example.com", "Ada", "correct horse battery")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = auth.Register(ctx, "second@example.com", "Bob", "short")
	assert.True(t, apperr.IsValidation(err))

	loggedIn, err := auth.Login(ctx, "FOUNDER@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = auth.Login(ctx, "founder@example.com", "wrong password!!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthJWT(t *testing.T) {
	auth := NewAuthService(nil, testSecret, time.Hour, true)
	user := &model.User{ID: "u-1", Email: "founder@example.com"}

	token, expiry, err := auth.GenerateJWT(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	userID, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	other := NewAuthService(nil, "a-different-secret-of-32-bytes-or-more", time.Hour, true)
	_, err = other.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(nil, testSecret, -time.Minute, true)
	stale, _, err := expired.GenerateJWT(user)
	require.NoError(t, err)
	_, err = auth.VerifyJWT(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.VerifyJWT("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthCookies(t *testing.T) {
	auth := NewAuthService(nil, testSecret, time.Hour, true)

	rec := httptest.NewRecorder()
	auth.SetJWTCookie(rec, "tok", time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	auth.ClearJWTCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
