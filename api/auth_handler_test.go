package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRoutes_RegisterSetsSessionCookie(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		secure      bool
	}{
		{name: "development", environment: "development", secure: false},
		{name: "production", environment: "production", secure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			settings.Environment = tt.environment
			router, _ := newTestRouter(t, settings)

			rec := doRequest(router, http.MethodPost, "/api/auth/register", `{"email":"Admin@Example.com","password":"secret1"}`, nil)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "passwordHash")

			var admin models.Admin
			env := decodeEnvelope(t, rec, &admin)
			assert.Equal(t, "Admin created", env.Message)
			assert.Equal(t, "admin@example.com", admin.Email)

			cookie := sessionCookie(t, rec)
			assert.NotEmpty(t, cookie.Value)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, 7*24*60*60, cookie.MaxAge)
			assert.Equal(t, tt.secure, cookie.Secure)
		})
	}
}

func TestAuthRoutes_RegisterOnlyOnce(t *testing.T) {
	router, _ := newTestRouter(t, testSettings())
	registerAdmin(t, router)

	rec := doRequest(router, http.MethodPost, "/api/auth/register", `{"email":"other@example.com","password":"secret2"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Admin already exists", decodeEnvelope(t, rec, nil).Message)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthRoutes_Login(t *testing.T) {
	router, _ := newTestRouter(t, testSettings())
	registerAdmin(t, router)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		message    string
	}{
		{name: "valid", body: `{"email":"admin@example.com","password":"secret1"}`, wantStatus: http.StatusOK, message: "Logged in"},
		{name: "email case ignored", body: `{"email":"ADMIN@example.com","password":"secret1"}`, wantStatus: http.StatusOK, message: "Logged in"},
		{name: "wrong password", body: `{"email":"admin@example.com","password":"secret2"}`, wantStatus: http.StatusUnauthorized, message: "Invalid credentials"},
		{name: "unknown email", body: `{"email":"nobody@example.com","password":"secret1"}`, wantStatus: http.StatusUnauthorized, message: "Invalid credentials"},
		{name: "missing password", body: `{"email":"admin@example.com"}`, wantStatus: http.StatusBadRequest, message: "password is required"},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, message: "Malformed request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/auth/login", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.message, decodeEnvelope(t, rec, nil).Message)

			if tt.wantStatus == http.StatusOK {
				assert.NotEmpty(t, sessionCookie(t, rec).Value)
			} else {
				assert.Empty(t, rec.Result().Cookies())
			}
		})
	}
}

func TestAuthRoutes_MeAndLogout(t *testing.T) {
	router, _ := newTestRouter(t, testSettings())
	cookie := registerAdmin(t, router)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var admin models.Admin
	decodeEnvelope(t, rec, &admin)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	rec = doRequest(router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestAuthRoutes_SessionOfDeletedAdmin(t *testing.T) {
	router, _ := newTestRouter(t, testSettings())

	// a well-signed token for an admin that was never stored
	token, err := auth.NewTokenService("test-secret").Sign(auth.Identity{ID: "0123456789abcdef01234567", Email: "ghost@example.com"})
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/auth/me", "", &http.Cookie{Name: sessionCookieName, Value: token})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRoutes_UpdateCredentials(t *testing.T) {
	router, db := newTestRouter(t, testSettings())
	cookie := registerAdmin(t, router)

	hash, err := auth.HashPassword("other-secret")
	require.NoError(t, err)
	require.NoError(t, db.AdminRepo().Insert(context.Background(), &models.Admin{Email: "taken@example.com", PasswordHash: hash}))

	t.Run("requires a session", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/auth/update", `{"email":"new@example.com"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("email in use", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/auth/update", `{"email":"taken@example.com","password":"changed1"}`, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec, nil)
		assert.Equal(t, "Email already in use", env.Message)
		assert.Equal(t, "email", env.Field)

		// neither field changed
		rec = doRequest(router, http.MethodGet, "/api/auth/me", "", cookie)
		var admin models.Admin
		decodeEnvelope(t, rec, &admin)
		assert.Equal(t, "admin@example.com", admin.Email)

		rec = doRequest(router, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"secret1"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/auth/update", `{"email":"not-an-email"}`, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("change both", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/auth/update", `{"email":"new@example.com","password":"changed1"}`, cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Credentials updated", decodeEnvelope(t, rec, nil).Message)
		fresh := sessionCookie(t, rec)

		rec = doRequest(router, http.MethodGet, "/api/auth/me", "", fresh)
		var admin models.Admin
		decodeEnvelope(t, rec, &admin)
		assert.Equal(t, "new@example.com", admin.Email)

		rec = doRequest(router, http.MethodPost, "/api/auth/login", `{"email":"new@example.com","password":"changed1"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = doRequest(router, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"secret1"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
