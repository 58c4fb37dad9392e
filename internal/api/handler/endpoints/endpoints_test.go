package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storeapi/internal/api/entities"
	"storeapi/internal/api/handler/mapper"
	"storeapi/internal/api/handler/middleware"
	"storeapi/internal/api/handler/request"
	"storeapi/internal/api/models"
	"storeapi/internal/api/repo"
	"storeapi/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Data     json.RawMessage  `json:"data"`
	Errors   []map[string]any `json:"errors"`
	Metadata *struct {
		Page         int   `json:"page"`
		Limit        int   `json:"limit"`
		TotalRecords int64 `json:"total_records"`
		TotalPages   int   `json:"total_pages"`
	} `json:"metadata"`
}

type testServer struct {
	router *gin.Engine
	store  *repo.MemoryStore
}

func setupServer(t *testing.T) testServer {
	gin.SetMode(gin.TestMode)
	logger := zerolog.New(io.Discard)

	catalog, err := repo.NewCatalog(nil, models.All()...)
	require.NoError(t, err)
	store := repo.NewMemoryStore(catalog)
	services := service.NewServices(store, entities.NewRegistry(), nil, nil, logger)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))
	ResourceHandler(router, services, Limits{Default: 10, Max: 50}, logger)
	SystemHandler(router, nil, map[string]HealthCheck{
		"store": func(context.Context) error { return nil },
	})
	return testServer{router: router, store: store}
}

func (s testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCreateCategory(t *testing.T) {
	s := setupServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Snacks", "is_active": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "success", env.Status)
	assert.Empty(t, env.Errors)
	assert.Nil(t, env.Metadata)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	data := decode[map[string]any](t, env.Data)
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "Snacks", data["name"])
	assert.Equal(t, true, data["is_active"])

	for _, key := range []string{"created_at", "updated_at"} {
		raw, ok := data[key].(string)
		require.True(t, ok, key)
		_, err := time.Parse(time.RFC3339, raw)
		assert.NoError(t, err, key)
		assert.Regexp(t, `\.\d{3}Z$`, raw)
	}
}

func TestCreateCategory_DefaultsActive(t *testing.T) {
	s := setupServer(t)

	_, env := s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Drinks"})
	data := decode[map[string]any](t, env.Data)
	assert.Equal(t, true, data["is_active"])
	assert.Equal(t, "", data["description"])
}

func TestCreateCategory_Validation(t *testing.T) {
	s := setupServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failed", env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "name", env.Errors[0]["field"])
	assert.Equal(t, "required", env.Errors[0]["type"])

	rec, env = s.do(t, http.MethodPost, "/api/v1/categories", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "body", env.Errors[0]["field"])
	assert.Equal(t, "invalid", env.Errors[0]["type"])
}

func TestCreateCategory_Duplicate(t *testing.T) {
	s := setupServer(t)

	s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Snacks"})
	rec, env := s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Snacks"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "failed", env.Status)
}

func TestMasterProduct_AbsentCategoryIsNull(t *testing.T) {
	s := setupServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/master-products", map[string]any{"name": "Cola", "code": "CL"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]any](t, env.Data)["id"]

	rec, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/master-products/%v", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[map[string]any](t, env.Data)
	require.Contains(t, data, "category")
	assert.Nil(t, data["category"])
	assert.Nil(t, data["category_id"])
}

func TestMasterProduct_WithCategory(t *testing.T) {
	s := setupServer(t)

	s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Drinks"})
	s.do(t, http.MethodPost, "/api/v1/master-products", map[string]any{"name": "Cola", "code": "CL", "category_id": 1})
	s.do(t, http.MethodPost, "/api/v1/master-products", map[string]any{"name": "Chips", "code": "CH"})

	_, env := s.do(t, http.MethodGet, "/api/v1/master-products/1", nil)
	data := decode[map[string]any](t, env.Data)
	assert.Equal(t, float64(1), data["category_id"])
	category, ok := data["category"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Drinks", category["name"])

	_, env = s.do(t, http.MethodGet, "/api/v1/master-products?category_id=1", nil)
	list := decode[[]map[string]any](t, env.Data)
	require.Len(t, list, 1)
	assert.Equal(t, "Cola", list[0]["name"])

	rec, env := s.do(t, http.MethodPost, "/api/v1/master-products", map[string]any{"name": "Tea", "code": "TE", "category_id": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failed", env.Status)
}

func TestUnregisteredResource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zerolog.New(io.Discard)
	catalog, err := repo.NewCatalog(nil, models.All()...)
	require.NoError(t, err)
	store := repo.NewMemoryStore(catalog)

	widgets := service.NewBase(repo.NewRepository("widgets", store, entities.NewRegistry(), logger), nil, logger)
	router := gin.New()
	NewController(widgets, mapper.Identity,
		func() request.Body { return &request.CreateCategory{} },
		func() request.Body { return &request.UpdateCategory{} },
		Limits{}, logger).Register(router.Group("/widgets"))

	for _, path := range []string{"/widgets", "/widgets/1"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "failed", env.Status)
		assert.Contains(t, env.Message, "widgets")
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "internal_error", env.Errors[0]["type"])
	}
}

func TestList_Pagination(t *testing.T) {
	s := setupServer(t)

	_, env := s.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.NotNil(t, env.Metadata)
	assert.Equal(t, int64(0), env.Metadata.TotalRecords)
	assert.Equal(t, 0, env.Metadata.TotalPages)
	assert.Equal(t, "[]", string(env.Data))

	for i := 1; i <= 23; i++ {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": fmt.Sprintf("cat-%02d", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, env = s.do(t, http.MethodGet, "/api/v1/categories?limit=10&page=3", nil)
	require.NotNil(t, env.Metadata)
	assert.Equal(t, 3, env.Metadata.Page)
	assert.Equal(t, 10, env.Metadata.Limit)
	assert.Equal(t, int64(23), env.Metadata.TotalRecords)
	assert.Equal(t, 3, env.Metadata.TotalPages)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 3)

	_, env = s.do(t, http.MethodGet, "/api/v1/categories?limit=500", nil)
	assert.Equal(t, 50, env.Metadata.Limit)
	assert.Equal(t, 1, env.Metadata.TotalPages)

	_, env = s.do(t, http.MethodGet, "/api/v1/categories?sort=-name&limit=1", nil)
	list := decode[[]map[string]any](t, env.Data)
	assert.Equal(t, "cat-23", list[0]["name"])

	_, env = s.do(t, http.MethodGet, "/api/v1/categories?search=CAT-1", nil)
	assert.Equal(t, int64(10), env.Metadata.TotalRecords)
}

func TestList_InvalidQuery(t *testing.T) {
	s := setupServer(t)

	for _, query := range []string{"page=0", "limit=abc", "sort=nope", "role_id=x", "is_active=maybe"} {
		rec, env := s.do(t, http.MethodGet, "/api/v1/accounts?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Equal(t, "failed", env.Status, query)
		assert.NotEmpty(t, env.Errors, query)
	}
}

func TestGetByID_Errors(t *testing.T) {
	s := setupServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/categories/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "not_found", env.Errors[0]["type"])

	rec, env = s.do(t, http.MethodGet, "/api/v1/categories/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "invalid", env.Errors[0]["type"])
}

func TestUpdateAndDelete(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Snacks"})

	rec, env := s.do(t, http.MethodPut, "/api/v1/categories/1", map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode[map[string]any](t, env.Data)
	assert.Equal(t, false, data["is_active"])
	assert.Equal(t, "Snacks", data["name"])

	rec, _ = s.do(t, http.MethodPut, "/api/v1/categories/7", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodDelete, "/api/v1/categories/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(env.Data))

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/categories/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccount_PasswordNeverReturned(t *testing.T) {
	s := setupServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Ana", "email": "ana@example.com", "password": "long-enough",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decode[map[string]any](t, env.Data)
	assert.NotContains(t, data, "password")
	assert.Nil(t, data["role"])

	rec, env = s.do(t, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Bob", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields := []any{}
	for _, item := range env.Errors {
		fields = append(fields, item["field"])
	}
	assert.ElementsMatch(t, []any{"email", "password"}, fields)
}

func TestTransactionFlow(t *testing.T) {
	s := setupServer(t)

	s.do(t, http.MethodPost, "/api/v1/master-products", map[string]any{"name": "Cola", "code": "CL"})
	s.do(t, http.MethodPost, "/api/v1/products", map[string]any{"master_product_id": 1, "sku": "CL-330", "price": 2500})
	rec, _ := s.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{"code": "TRX-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodPost, "/api/v1/orders", map[string]any{"transaction_id": 1, "product_id": 1, "quantity": 4})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, env.Data)
	assert.Equal(t, 2500.0, order["price"])
	assert.Equal(t, 10000.0, order["subtotal"])

	_, env = s.do(t, http.MethodGet, "/api/v1/transactions/1", nil)
	trx := decode[map[string]any](t, env.Data)
	assert.Equal(t, 10000.0, trx["total"])
	assert.Equal(t, "cash", trx["payment_method"])
	assert.Nil(t, trx["account"])
	orders, ok := trx["orders"].([]any)
	require.True(t, ok)
	require.Len(t, orders, 1)
	product := orders[0].(map[string]any)["product"].(map[string]any)
	assert.Equal(t, "CL-330", product["sku"])

	_, env = s.do(t, http.MethodGet, "/api/v1/transactions", nil)
	list := decode[[]map[string]any](t, env.Data)
	require.Len(t, list, 1)
	assert.Equal(t, float64(1), list[0]["order_count"])
	assert.NotContains(t, list[0], "orders")
}

func TestStockSummary(t *testing.T) {
	s := setupServer(t)

	s.do(t, http.MethodPost, "/api/v1/master-products", map[string]any{"name": "Cola", "code": "CL"})
	s.do(t, http.MethodPost, "/api/v1/products", map[string]any{"master_product_id": 1, "sku": "CL-330"})
	for _, qty := range []int{6, 4} {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/product-stock-ins", map[string]any{"product_id": 1, "quantity": qty})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	_, env := s.do(t, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, float64(10), decode[map[string]any](t, env.Data)["stock"])

	rec, env := s.do(t, http.MethodGet, "/api/v1/products/stock-summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	days := decode[[]map[string]any](t, env.Data)
	require.Len(t, days, 1)
	assert.Equal(t, float64(1), days[0]["product_id"])
	assert.Equal(t, float64(10), days[0]["quantity_in"])
	assert.Equal(t, float64(10), days[0]["balance"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Recovery(zerolog.New(io.Discard)))
	router.GET("/boom", func(*gin.Context) { panic(errors.New("boom")) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "failed", env.Status)
	assert.Equal(t, "Internal server error", env.Message)
}

func TestHealth(t *testing.T) {
	s := setupServer(t)

	rec, env := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"store": "ok"}, decode[map[string]string](t, env.Data))

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
