package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Bill-Pill/sunglasses-io/middleware"
	"github.com/Bill-Pill/sunglasses-io/models"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"github.com/Bill-Pill/sunglasses-io/routes"
	"github.com/Bill-Pill/sunglasses-io/seed"
	"github.com/Bill-Pill/sunglasses-io/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	router  *gin.Engine
	gate    *middleware.Gate
	catalog services.CatalogService
	users   *repository.InMemoryUserRepository
	carts   *repository.InMemoryCartRepository
}

func newApp(t *testing.T, limiter *middleware.RateLimiter) *app {
	t.Helper()
	log := zap.NewNop()

	catalog := services.NewCatalogService(repository.NewInMemoryCatalogRepository(), nil, log)
	users := repository.NewInMemoryUserRepository()
	carts := repository.NewInMemoryCartRepository()
	sessions := services.NewSessionService(repository.NewInMemoryTokenRepository(), services.DefaultTokenValidity, log, services.WithUserDirectory(users))
	gate := middleware.NewGate()

	router := routes.NewRouter(routes.Dependencies{
		Catalog:        catalog,
		Auth:           services.NewAuthService(users, sessions, nil, log),
		Carts:          services.NewCartService(sessions, carts, nil, nil, log),
		Gate:           gate,
		RateLimiter:    limiter,
		Logger:         log,
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	return &app{router: router, gate: gate, catalog: catalog, users: users, carts: carts}
}

func (a *app) seed() {
	seed.Apply(context.Background(), &seed.Dataset{
		Brands:   []models.Brand{{ID: "1", Name: "Oakley"}},
		Products: []models.Product{{ID: "1", BrandID: "1", Name: "Superglasses", Description: "The best glasses in the world", Price: 150}},
		Users: []models.User{{
			Email: "salvador.jordan@example.com",
			Login: models.Login{Username: "lazywolf342", Password: "tucker"},
			Cart:  []models.CartItem{{ID: "1", BrandID: "1", Name: "Superglasses", Description: "The best glasses in the world", Price: 150, Quantity: 2}},
		}},
	}, a.catalog, a.users, a.carts)
	a.gate.MarkReady()
}

func (a *app) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestReadinessGate(t *testing.T) {
	a := newApp(t, nil)

	assert.Equal(t, http.StatusOK, a.serve(httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusServiceUnavailable, a.serve(httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)

	w := a.serve(httptest.NewRequest(http.MethodGet, "/api/brands", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"NotReady"`)

	a.seed()

	assert.Equal(t, http.StatusOK, a.serve(httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)
	w = a.serve(httptest.NewRequest(http.MethodGet, "/api/brands", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":"1","name":"Oakley"}]`, w.Body.String())
}

func TestSeededCartVisibleAfterLogin(t *testing.T) {
	a := newApp(t, nil)
	a.seed()

	body, _ := json.Marshal(gin.H{"email": "salvador.jordan@example.com", "password": "tucker"})
	w := a.serve(httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	var token string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))

	w = a.serve(httptest.NewRequest(http.MethodGet, "/api/me/cart?accessToken="+token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var cart []models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestCORS(t *testing.T) {
	a := newApp(t, nil)
	a.seed()

	req := httptest.NewRequest(http.MethodOptions, "/api/brands", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := a.serve(req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/brands", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = a.serve(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimitedAPI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := newApp(t, middleware.NewRateLimiter(ctx, rate.Limit(0.001), 1, time.Minute))
	a.seed()

	assert.Equal(t, http.StatusOK, a.serve(httptest.NewRequest(http.MethodGet, "/api/brands", nil)).Code)
	w := a.serve(httptest.NewRequest(http.MethodGet, "/api/brands", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"RateLimited"`)

	assert.Equal(t, http.StatusOK, a.serve(httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}
