package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-middleware-tests",
		Expiration: time.Hour,
		Issuer:     "test",
	})
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := newTestJWTService()

	router := gin.New()
	router.GET("/admin", RequireAdmin(jwtService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("accepts an admin token", func(t *testing.T) {
		token, _, err := jwtService.GenerateAdminToken()
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a partner token", func(t *testing.T) {
		token, _, err := jwtService.GeneratePartnerToken(uuid.New())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequirePartner_StoresProfileID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := newTestJWTService()
	profileID := uuid.New()

	var seen uuid.UUID
	router := gin.New()
	router.GET("/cabinet", RequirePartner(jwtService), func(c *gin.Context) {
		seen = GetProfileID(c)
		c.Status(http.StatusOK)
	})

	token, _, err := jwtService.GeneratePartnerToken(profileID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cabinet", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, profileID, seen)
}

func TestOptionalPartner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := newTestJWTService()

	var seen uuid.UUID
	router := gin.New()
	router.GET("/basket", OptionalPartner(jwtService), func(c *gin.Context) {
		seen = GetProfileID(c)
		c.Status(http.StatusOK)
	})

	t.Run("anonymous requests pass through", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/basket", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uuid.Nil, seen)
	})

	t.Run("a valid partner token sets the profile", func(t *testing.T) {
		profileID := uuid.New()
		token, _, err := jwtService.GeneratePartnerToken(profileID)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/basket", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, profileID, seen)
	})

	t.Run("a broken token is treated as anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/basket", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"broken")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uuid.Nil, seen)
	})
}
