package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/repositories/memrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Details string `json:"details"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *memrepo.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memrepo.New()
	repos := Repositories{
		Customers: store.Customers(),
		Accounts:  store.Accounts(),
		Products:  store.Products(),
		Orders:    store.Orders(),
	}
	logger := zap.NewNop()
	return &testAPI{
		t:      t,
		router: NewRouter(logger, NewServices(logger, store, repos, nil, nil, 4)),
		store:  store,
	}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) created(path string, body any) int64 {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp apiResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return int64(resp.Data["id"].(float64))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) errorResponse {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	resp := decode[errorResponse](t, w)
	assert.Equal(t, code, resp.Code)
	assert.NotEmpty(t, resp.Message)
	return resp
}

func ada() map[string]any {
	return map[string]any{"name": "Ada", "email": "ada@x.io", "phone": "555"}
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(pkg.HeaderTraceId))

	w = api.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ecommerce_api_http_requests_total")
}

func TestSwaggerUI(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/swagger/index.html", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")

	w = api.do(http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[map[string]any](t, w)
	paths := doc["paths"].(map[string]any)
	for _, p := range []string{"/customers", "/customers/{id}", "/products/{id}", "/customeraccounts/{customerId}", "/orders", "/orders/{id}"} {
		assert.Contains(t, paths, p)
	}
}

func TestCustomers_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/customers", ada())
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[apiResponse](t, w)
	assert.NotEmpty(t, resp.Message)
	id := int64(resp.Data["id"].(float64))

	w = api.do(http.MethodGet, fmt.Sprintf("/customers/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"name":"Ada","email":"ada@x.io","phone":"555"}`, id), w.Body.String())

	api.created("/customers", map[string]any{"name": "Grace", "email": "", "phone": ""})
	w = api.do(http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)
}

func TestCustomers_Validation(t *testing.T) {
	api := newTestAPI(t)

	bodies := map[string]any{
		"missing phone":   map[string]any{"name": "Ada", "email": "ada@x.io"},
		"empty name":      map[string]any{"name": "", "email": "a", "phone": "1"},
		"email as number": map[string]any{"name": "Ada", "email": 7, "phone": "1"},
		"phone too long":  map[string]any{"name": "Ada", "email": "a", "phone": "1234567890123456"},
		"malformed json":  `{"name":`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/customers", body)
			assertError(t, w, http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)
		})
	}
}

func TestCustomers_UpdateRejectsBadBodyWithoutMutating(t *testing.T) {
	api := newTestAPI(t)
	id := api.created("/customers", ada())
	path := fmt.Sprintf("/customers/%d", id)

	w := api.do(http.MethodPut, path, map[string]any{"name": "Ada L"})
	assertError(t, w, http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)

	w = api.do(http.MethodGet, path, nil)
	assert.Equal(t, "Ada", decode[map[string]any](t, w)["name"])

	w = api.do(http.MethodPut, path, map[string]any{"name": "Ada L", "email": "ada@x.io", "phone": "556"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "556", decode[apiResponse](t, w).Data["phone"])
}

func TestUpdateUnknownIDIsNotFoundBeforeBodyValidation(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/customers/999", "/products/999", "/customeraccounts/999"} {
		t.Run(path, func(t *testing.T) {
			assertError(t, api.do(http.MethodPut, path, map[string]any{}), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
			assertError(t, api.do(http.MethodPut, path, `{"name":`), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
		})
	}
}

func TestCustomers_DeleteBlockedByOrder(t *testing.T) {
	api := newTestAPI(t)
	id := api.created("/customers", ada())
	api.created("/orders", map[string]any{"customer_id": id, "product_ids": []int64{}})

	w := api.do(http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil)
	assertError(t, w, http.StatusConflict, pkg.ErrSQLConflictCode.Code)

	w = api.do(http.MethodGet, fmt.Sprintf("/customers/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomers_Delete(t *testing.T) {
	api := newTestAPI(t)
	id := api.created("/customers", ada())
	path := fmt.Sprintf("/customers/%d", id)

	w := api.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[apiResponse](t, w).Message)

	assertError(t, api.do(http.MethodGet, path, nil), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
	assertError(t, api.do(http.MethodDelete, path, nil), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
}

func TestProducts_PriceRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	id := api.created("/products", map[string]any{"name": "Lamp", "price": 19.99})

	w := api.do(http.MethodGet, fmt.Sprintf("/products/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"name":"Lamp","price":19.99}`, id), w.Body.String())

	api.created("/products", map[string]any{"name": "Free sample", "price": 0})
	w = api.do(http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)
}

func TestProducts_Validation(t *testing.T) {
	api := newTestAPI(t)

	for name, body := range map[string]any{
		"missing price":   map[string]any{"name": "Lamp"},
		"negative price":  map[string]any{"name": "Lamp", "price": -1},
		"price as string": map[string]any{"name": "Lamp", "price": "cheap"},
		"missing name":    map[string]any{"price": 3},
	} {
		t.Run(name, func(t *testing.T) {
			assertError(t, api.do(http.MethodPost, "/products", body), http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)
		})
	}
}

func TestProducts_UpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	id := api.created("/products", map[string]any{"name": "Lamp", "price": 10})
	path := fmt.Sprintf("/products/%d", id)

	w := api.do(http.MethodPut, path, map[string]any{"name": "Lamp", "price": 12.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12.5, decode[apiResponse](t, w).Data["price"])

	assertError(t, api.do(http.MethodPut, "/products/999", map[string]any{"name": "x", "price": 1}),
		http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)

	customer := api.created("/customers", ada())
	api.created("/orders", map[string]any{"customer_id": customer, "product_ids": []int64{id}})
	assertError(t, api.do(http.MethodDelete, path, nil), http.StatusConflict, pkg.ErrSQLConflictCode.Code)

	other := api.created("/products", map[string]any{"name": "Mug", "price": 3})
	w = api.do(http.MethodDelete, fmt.Sprintf("/products/%d", other), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccounts_Lifecycle(t *testing.T) {
	api := newTestAPI(t)
	customer := api.created("/customers", ada())
	path := fmt.Sprintf("/customeraccounts/%d", customer)

	w := api.do(http.MethodPost, "/customeraccounts",
		map[string]any{"username": "ada", "password": "pw", "customer_id": customer})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = api.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	got := decode[map[string]any](t, w)
	assert.Equal(t, "ada", got["username"])
	assert.Equal(t, float64(customer), got["customer_id"])
	assert.Equal(t, "Ada", got["customer"].(map[string]any)["name"])

	w = api.do(http.MethodPut, path, map[string]any{"username": "ada2", "password": "pw2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada2", decode[apiResponse](t, w).Data["username"])

	assertError(t, api.do(http.MethodPut, path, map[string]any{"username": "ada3"}),
		http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)

	w = api.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assertError(t, api.do(http.MethodGet, path, nil), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
	assertError(t, api.do(http.MethodDelete, path, nil), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
}

func TestAccounts_Conflicts(t *testing.T) {
	api := newTestAPI(t)
	c1 := api.created("/customers", ada())
	c2 := api.created("/customers", map[string]any{"name": "Grace", "email": "g@x.io", "phone": "1"})
	api.created("/customeraccounts", map[string]any{"username": "ada", "password": "pw", "customer_id": c1})

	w := api.do(http.MethodPost, "/customeraccounts",
		map[string]any{"username": "ada", "password": "pw", "customer_id": c2})
	assertError(t, w, http.StatusConflict, pkg.ErrSQLDuplicateCode.Code)

	w = api.do(http.MethodPost, "/customeraccounts",
		map[string]any{"username": "ghost", "password": "pw", "customer_id": 999})
	assertError(t, w, http.StatusConflict, pkg.ErrSQLConflictCode.Code)

	w = api.do(http.MethodPost, "/customeraccounts",
		map[string]any{"username": "nopw", "customer_id": c2})
	assertError(t, w, http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)

	assertError(t, api.do(http.MethodGet, "/customeraccounts/999", nil), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
	assertError(t, api.do(http.MethodPut, "/customeraccounts/999", map[string]any{"username": "x", "password": "y"}),
		http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
}

func TestOrders_UnknownProductsIgnored(t *testing.T) {
	api := newTestAPI(t)
	customer := api.created("/customers", ada())
	p1 := api.created("/products", map[string]any{"name": "A", "price": 1})
	p2 := api.created("/products", map[string]any{"name": "B", "price": 2.5})

	w := api.do(http.MethodPost, "/orders", map[string]any{"customer_id": customer, "product_ids": []int64{p1, p2, 999}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[apiResponse](t, w).Data["order"].(map[string]any)
	orderID := int64(order["id"].(float64))
	assert.NotEmpty(t, order["date"])

	w = api.do(http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details struct {
		Order struct {
			ID         int64   `json:"id"`
			CustomerID int64   `json:"customer_id"`
			Date       string  `json:"date"`
			ProductIDs []int64 `json:"product_ids"`
		} `json:"order"`
		Products []struct {
			ID    int64   `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, orderID, details.Order.ID)
	assert.Equal(t, customer, details.Order.CustomerID)
	assert.Equal(t, []int64{p1, p2}, details.Order.ProductIDs)
	require.Len(t, details.Products, 2)
	assert.Equal(t, 2.5, details.Products[1].Price)
}

func TestOrders_Errors(t *testing.T) {
	api := newTestAPI(t)
	customer := api.created("/customers", ada())

	assertError(t, api.do(http.MethodPost, "/orders", map[string]any{"customer_id": customer}),
		http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)
	assertError(t, api.do(http.MethodPost, "/orders", map[string]any{"product_ids": []int64{1}}),
		http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)
	assertError(t, api.do(http.MethodPost, "/orders", map[string]any{"customer_id": 999, "product_ids": []int64{}}),
		http.StatusConflict, pkg.ErrSQLConflictCode.Code)
	assertError(t, api.do(http.MethodGet, "/orders/999", nil), http.StatusNotFound, pkg.ErrRecordNotFoundCode.Code)
}

func TestInvalidPathIDs(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/customers/abc", "/products/1.5", "/orders/-1", "/customeraccounts/zero"} {
		t.Run(path, func(t *testing.T) {
			assertError(t, api.do(http.MethodGet, path, nil), http.StatusBadRequest, pkg.ErrInvalidInputCode.Code)
		})
	}
}

func TestTraceIDEchoedOnErrors(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/customers/404", nil)
	req.Header.Set(pkg.HeaderTraceId, "trace-abc")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "trace-abc", w.Header().Get(pkg.HeaderTraceId))
}
