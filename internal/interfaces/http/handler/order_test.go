package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	identityapp "github.com/store/backend/internal/application/identity"
	tradeapp "github.com/store/backend/internal/application/trade"
	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/infrastructure/config"
	"github.com/store/backend/internal/infrastructure/persistence"
	"github.com/store/backend/internal/interfaces/http/dto"
	"github.com/store/backend/internal/interfaces/http/handler"
	"github.com/store/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type orderAPIFixture struct {
	db     *gorm.DB
	router *gin.Engine
	jwt    *auth.JWTService
}

func newOrderAPIFixture(t *testing.T) *orderAPIFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-for-handler-tests",
		Expiration: time.Hour,
		Issuer:     "test",
	})

	orderService := tradeapp.NewOrderService(
		persistence.NewGormOrderRepository(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormProfileRepository(db),
		persistence.NewGormUnitOfWork(db),
		zap.NewNop(),
	)
	authService := identityapp.NewAuthService(
		persistence.NewGormProfileRepository(db),
		jwtService,
		config.AdminConfig{Login: "admin", Password: "console-password"},
		zap.NewNop(),
	)

	orderHandler := handler.NewOrderHandler(orderService)
	authHandler := handler.NewAuthHandler(authService)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/auth/admin/login", authHandler.LoginAdmin)
	api.POST("/trade/orders", middleware.OptionalPartner(jwtService), orderHandler.Create)
	api.GET("/trade/orders/:number", orderHandler.Track)

	admin := api.Group("/admin", middleware.RequireAdmin(jwtService))
	admin.GET("/orders", orderHandler.List)
	admin.PUT("/orders/:number/status", orderHandler.UpdateStatus)

	return &orderAPIFixture{db: db, router: router, jwt: jwtService}
}

func (f *orderAPIFixture) seedProduct(t *testing.T, article string, count int) {
	t.Helper()
	product := &catalog.Product{
		Name:           "Product " + article,
		Article:        article,
		Count:          count,
		Available:      count > 0,
		Visible:        true,
		Price:          decimal.RequireFromString("100.00"),
		WholesalePrice: decimal.RequireFromString("80.00"),
		Weight:         decimal.NewFromInt(1),
		Height:         decimal.NewFromInt(1),
		Width:          decimal.NewFromInt(1),
		Length:         decimal.NewFromInt(1),
	}
	require.NoError(t, f.db.Create(product).Error)
}

func (f *orderAPIFixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func checkoutBody(articles ...string) gin.H {
	items := make([]gin.H, 0, len(articles))
	for _, a := range articles {
		items = append(items, gin.H{"article": a, "quantity": 1})
	}
	return gin.H{
		"name":          "Ivan",
		"phone":         "+79001234567",
		"delivery_type": "PICKUP",
		"payment_type":  "CASH",
		"items":         items,
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestOrderAPI_Checkout(t *testing.T) {
	f := newOrderAPIFixture(t)
	f.seedProduct(t, "A-1", 5)

	w := f.do(t, http.MethodPost, "/api/v1/trade/orders", checkoutBody("A-1"), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	number := data["number"].(string)
	assert.Regexp(t, `^ORD-\d{15}$`, number)

	t.Run("tracking exposes the public field set only", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/trade/orders/"+number, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, number, data["number"])
		assert.Equal(t, "CREATED", data["status"])
		assert.NotContains(t, data, "phone")
		assert.NotContains(t, data, "email")
	})
}

func TestOrderAPI_InsufficientStockMapsTo422(t *testing.T) {
	f := newOrderAPIFixture(t)
	f.seedProduct(t, "B-1", 0)

	w := f.do(t, http.MethodPost, "/api/v1/trade/orders", checkoutBody("B-1"), "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
}

func TestOrderAPI_UnknownOrderMapsTo404(t *testing.T) {
	f := newOrderAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/trade/orders/ORD-000000000000000", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestOrderAPI_AdminGuard(t *testing.T) {
	f := newOrderAPIFixture(t)
	f.seedProduct(t, "C-1", 5)

	w := f.do(t, http.MethodPost, "/api/v1/trade/orders", checkoutBody("C-1"), "")
	require.Equal(t, http.StatusCreated, w.Code)
	number := decodeResponse(t, w).Data.(map[string]any)["number"].(string)

	t.Run("anonymous admin access is rejected", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/admin/orders", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin login grants access", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/auth/admin/login",
			gin.H{"login": "admin", "password": "console-password"}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		token := decodeResponse(t, w).Data.(map[string]any)["token"].(string)

		w = f.do(t, http.MethodGet, "/api/v1/admin/orders", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)

		statusPath := fmt.Sprintf("/api/v1/admin/orders/%s/status", number)
		w = f.do(t, http.MethodPut, statusPath, gin.H{"status": "CONFIRMED"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "CONFIRMED", data["status"])
	})

	t.Run("wrong admin password is rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/auth/admin/login",
			gin.H{"login": "admin", "password": "wrong"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
