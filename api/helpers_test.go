package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDefaultImage = "https://cdn.example.com/default.png"

func testSettings() config.Settings {
	return config.Settings{
		Environment:     "development",
		JWTSecret:       "test-secret",
		DefaultImageURL: testDefaultImage,
		UploadMaxBytes:  1 << 20,
	}
}

func newTestRouter(t *testing.T, settings config.Settings, opts ...Option) (*chi.Mux, database.Database) {
	t.Helper()
	db := database.NewMemory()
	opts = append([]Option{withSettings(settings), withStartupTime(time.Now())}, opts...)
	return newRouter(db, opts...), db
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Field   string          `json:"field"`
	Error   any             `json:"error"`
}

func doRequest(router http.Handler, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookieName)
	return nil
}

// registerAdmin creates the admin and returns its session cookie
func registerAdmin(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	rec := doRequest(router, http.MethodPost, "/api/auth/register", `{"email":"admin@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

// MockUploader is a mock implementation of services.Uploader.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, file services.File) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

// MockMailer is a mock implementation of services.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email services.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
