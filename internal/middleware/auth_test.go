package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ecommerce-platform/internal/models"
	"ecommerce-platform/internal/services"

	"github.com/stretchr/testify/assert"
)

type mockAuthService struct {
	user *models.User
}

func (m *mockAuthService) Register(req *services.RegisterRequest) (*services.AuthResponse, error) {
	return nil, models.ErrUnauthorized
}

func (m *mockAuthService) Login(req *services.LoginRequest) (*services.AuthResponse, error) {
	return nil, models.ErrUnauthorized
}

func (m *mockAuthService) ValidateToken(token string) (*models.User, error) {
	if token == "valid-token" && m.user != nil {
		return m.user, nil
	}
	return nil, models.ErrUnauthorized
}

func echoUserHandler(t *testing.T, want *models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := GetUserFromContext(r.Context())
		if want == nil {
			assert.Nil(t, got)
		} else {
			assert.NotNil(t, got)
			assert.Equal(t, want.ID, got.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadUser(t *testing.T) {
	user := &models.User{ID: 1, Email: "user@example.com", Role: models.RoleUser}
	m := NewAuthMiddleware(&mockAuthService{user: user})

	t.Run("attaches the user for a valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()

		m.LoadUser(echoUserHandler(t, user)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("continues anonymously without a token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()

		m.LoadUser(echoUserHandler(t, nil)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("continues anonymously for an invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		m.LoadUser(echoUserHandler(t, nil)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ignores a malformed authorization header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "valid-token")
		rec := httptest.NewRecorder()

		m.LoadUser(echoUserHandler(t, nil)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: 1, Role: models.RoleUser}
	m := NewAuthMiddleware(&mockAuthService{user: user})

	protected := m.LoadUser(m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("allows an authenticated request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects an anonymous request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows an admin", func(t *testing.T) {
		admin := &models.User{ID: 1, Role: models.RoleAdmin}
		m := NewAuthMiddleware(&mockAuthService{user: admin})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()

		m.LoadUser(m.RequireAdmin(okHandler)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a regular user with 403", func(t *testing.T) {
		user := &models.User{ID: 1, Role: models.RoleUser}
		m := NewAuthMiddleware(&mockAuthService{user: user})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()

		m.LoadUser(m.RequireAdmin(okHandler)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects an anonymous request with 401", func(t *testing.T) {
		m := NewAuthMiddleware(&mockAuthService{})

		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()

		m.LoadUser(m.RequireAdmin(okHandler)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
