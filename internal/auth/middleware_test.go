package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iTakecare/itakecarehub-sub001/internal/auth"
	"github.com/iTakecare/itakecarehub-sub001/internal/config"
	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

const testSecret = "test-secret-0123456789"

func createTestMiddleware(enabled bool) *auth.Middleware {
	cfg := &config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "https://auth.test",
		Enabled:   enabled,
	}
	return auth.NewMiddleware(cfg, zap.NewNop())
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["iss"]; !ok {
		claims["iss"] = "https://auth.test"
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestMiddleware_Authenticate_WithValidToken(t *testing.T) {
	middleware := createTestMiddleware(true)
	userID := uuid.New()

	handlerCalled := false
	var capturedUserCtx *auth.UserContext

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		capturedUserCtx, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token := signToken(t, jwt.MapClaims{
		"sub":   userID.String(),
		"name":  "Test User",
		"email": "user@itakecare.be",
		"role":  "admin",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, capturedUserCtx)
	assert.Equal(t, userID, capturedUserCtx.UserID)
	assert.Equal(t, "Test User", capturedUserCtx.DisplayName)
	assert.True(t, capturedUserCtx.HasRole(domain.RoleAdmin))
}

func TestMiddleware_Authenticate_MissingHeader(t *testing.T) {
	middleware := createTestMiddleware(true)

	handlerCalled := false
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_Authenticate_WrongSignature(t *testing.T) {
	middleware := createTestMiddleware(true)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://auth.test",
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": uuid.NewString(),
	})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	handlerCalled := false
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_Authenticate_ExpiredToken(t *testing.T) {
	middleware := createTestMiddleware(true)

	token := signToken(t, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	handlerCalled := false
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_Authenticate_DisabledRunsAsAdmin(t *testing.T) {
	middleware := createTestMiddleware(false)

	var capturedUserCtx *auth.UserContext
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserCtx, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, capturedUserCtx)
	assert.True(t, capturedUserCtx.IsAdmin())
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	middleware := createTestMiddleware(true)

	handler := middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// ambassador role is not enough
	ctx := auth.WithUserContext(httptest.NewRequest(http.MethodDelete, "/api/v1/leasers/x", nil).Context(), &auth.UserContext{
		UserID: uuid.New(),
		Roles:  []domain.UserRoleType{domain.RoleAmbassador},
	})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/leasers/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin passes
	ctx = auth.WithUserContext(httptest.NewRequest(http.MethodDelete, "/api/v1/leasers/x", nil).Context(), &auth.UserContext{
		UserID: uuid.New(),
		Roles:  []domain.UserRoleType{domain.RoleAdmin},
	})
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/leasers/x", nil).WithContext(ctx)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_Authenticate_ServicePrincipalDerivesStableID(t *testing.T) {
	middleware := createTestMiddleware(true)

	token := signToken(t, jwt.MapClaims{
		"email": "integration@itakecare.be",
		"roles": []string{"partner"},
	})

	var first, second uuid.UUID
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		require.True(t, ok)
		if first == uuid.Nil {
			first = userCtx.UserID
		} else {
			second = userCtx.UserID
		}
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.NotEqual(t, uuid.Nil, first)
	assert.Equal(t, first, second)
}
