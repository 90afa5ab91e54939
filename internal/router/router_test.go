package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
	v1 "github.com/dmehra2102/prod-golang-projects/storefront/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/service"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const testSecret = "router-test-secret-0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine  *gin.Engine
	token   string
	metrics *metrics.Collector
}

func newTestServer(t *testing.T, ping func(context.Context) error) *testServer {
	t.Helper()

	log := zap.NewNop()
	cfg := &config.Config{
		App:     config.AppConfig{Version: "test"},
		Server:  config.ServerConfig{MaxBodyBytes: 4096},
		Metrics: config.MetricsConfig{Enabled: true, Namespace: "test"},
	}
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	authn := auth.NewAuthenticator(config.JWTConfig{Secret: testSecret}, log)
	token, _, err := authn.GenerateToken("tester", time.Hour)
	require.NoError(t, err)

	ops := memory.NewOperatorRepository()
	products := memory.NewProductRepository(memory.SeedProducts()...)
	svcs := v1.Services{
		Operators: service.NewOperatorService(ops, ops, nil, log, m),
		Customers: service.NewCustomerService(memory.NewCustomerRepository(memory.SeedCustomers()...), nil, log, m),
		Orders:    service.NewOrderService(memory.NewOrderRepository(memory.SeedOrders()...), products, nil, log, m),
		Products:  service.NewProductService(products, nil, log, m),
	}

	engine := New(Deps{
		Config:        cfg,
		Log:           log,
		Metrics:       m,
		Authenticator: authn,
		Builder:       apierror.NewBuilder(false),
		Services:      svcs,
		Ping:          ping,
	})
	return &testServer{engine: engine, token: token, metrics: m}
}

type call struct {
	method      string
	path        string
	body        string
	contentType string
	auth        string
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		ct := c.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
		if c.contentType != "" {
			req.Header.Set("Content-Type", c.contentType)
		}
	}
	switch c.auth {
	case "":
		req.Header.Set("Authorization", "Bearer "+s.token)
	case "-":
	default:
		req.Header.Set("Authorization", c.auth)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) apierror.Response {
	t.Helper()
	var body apierror.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNegativePriceIsUnprocessable(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/products",
		body: `{"name":"Widget","price":-5,"category":"Tools","stock":3}`})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := errorBody(t, rec)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, "INVALID_PRICE_VALUE", body.Code)
	assert.Equal(t, []string{"price must be greater than 0"}, body.Errors)
	assert.Nil(t, body.Details)

	assert.Contains(t, scrape(t, s), `test_validation_failures_total{code="INVALID_PRICE_VALUE",resource="product"} 1`)
}

func TestBadProductReferenceIsMalformed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/orders",
		body: `{"product_id":"BAD","quantity":1,"customer_email":"a@example.com"}`})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PRODUCT_ID_FORMAT", errorBody(t, rec).Code)
}

func TestMixedIssuesPreferMalformedStatus(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/products",
		body: `{"name":"Widget","price":-5,"category":"","stock":"many"}`})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := errorBody(t, rec)
	assert.Equal(t, "EMPTY_REQUIRED_FIELD", body.Code)
	assert.Len(t, body.Errors, 3)
}

func TestOperatorIDFormatHint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/v1/operators/not-a-uuid", auth: "-"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := errorBody(t, rec)
	assert.Equal(t, "INVALID_OPERATOR_ID", body.Code)
	assert.Equal(t, service.OperatorIDHint, body.Hint)
	assert.NotEmpty(t, body.RequestID)
}

func TestAuthPrecedence(t *testing.T) {
	s := newTestServer(t, nil)
	payload := `{"name":"A","email":"a@example.com","phone":"+15551234567"}`

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/customers", body: payload, auth: "-"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_AUTH_HEADER", errorBody(t, rec).Code)
	assert.Equal(t, `Bearer realm="api"`, rec.Header().Get("WWW-Authenticate"))

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/customers", body: payload, auth: "Token abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_AUTH_HEADER", errorBody(t, rec).Code)

	// Authentication runs before the body is looked at.
	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/customers", body: "not json", auth: "Bearer garbage"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", errorBody(t, rec).Code)
}

func TestOrderDeletionIsGatedOnStatus(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodDelete, path: "/api/v1/orders/2"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ORDER_DELETION_FORBIDDEN", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/orders/2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "delivered", decode[map[string]any](t, rec)["status"])

	rec = s.do(t, call{method: http.MethodDelete, path: "/api/v1/orders/1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order deleted successfully", decode[map[string]string](t, rec)["message"])

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/orders/1"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorBody(t, rec).Code)
}

func TestCustomerEmailUniquenessIgnoresCase(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/customers",
		body: `{"name":"Imposter","email":"JOHN@EXAMPLE.COM","phone":"+15551234567"}`})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/customers",
		body: `{"name":" Ada ","email":"Ada@Example.com","phone":"+1 555 123 4567"}`})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]string](t, rec)
	assert.Equal(t, "CUST-003", created["id"])
	assert.Equal(t, "Ada", created["name"])
	assert.Equal(t, "ada@example.com", created["email"])

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/customers/CUST-003", body: `{"email":"jane@example.com"}`})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/customers/42", body: `{"name":"x"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CUSTOMER_ID_FORMAT", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/customers/CUST-003"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOperatorLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/operators",
		body: `{"name":"Grace","email":"Grace@Example.com"}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[v1.APIResponse[map[string]any]](t, rec)
	assert.Equal(t, "Operator created successfully", created.Message)
	assert.Equal(t, "grace@example.com", created.Data["email"])
	id := created.Data["id"].(string)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/operators", auth: "-"})
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[v1.ListResponse[map[string]any]](t, rec)
	assert.Equal(t, 1, list.Count)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/operators/" + id, body: `{"phone":"+44 20 7946 0958"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[v1.APIResponse[map[string]any]](t, rec)
	assert.Equal(t, "Operator updated successfully", updated.Message)
	assert.Equal(t, "+44 20 7946 0958", updated.Data["phone"])

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/operators/" + id, body: `{"nickname":"g"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNEXPECTED_FIELDS", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/operators/" + id + "/skills", auth: "-"})
	require.Equal(t, http.StatusOK, rec.Code)
	skills := decode[map[string]any](t, rec)
	assert.Equal(t, id, skills["operator_id"])
	assert.EqualValues(t, 0, skills["count"])
	assert.Equal(t, []any{}, skills["data"])

	rec = s.do(t, call{method: http.MethodDelete, path: "/api/v1/operators/" + id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Operator deleted successfully", decode[map[string]string](t, rec)["message"])

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/operators/" + id, auth: "-"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := errorBody(t, rec)
	assert.Equal(t, "OPERATOR_NOT_FOUND", body.Code)
	assert.Contains(t, body.Hint, id)
}

func TestBodyRequirements(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantCode    string
	}{
		{name: "wrong content type", body: `{"name":"x"}`, contentType: "text/plain", wantStatus: http.StatusBadRequest, wantCode: "INVALID_CONTENT_TYPE"},
		{name: "no body", contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: "MISSING_REQUEST_BODY"},
		{name: "empty object", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: "MISSING_REQUEST_BODY"},
		{name: "array", body: `[1,2]`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_JSON"},
		{name: "broken", body: `{"name":`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_JSON"},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", 5000) + `"}`, wantStatus: http.StatusRequestEntityTooLarge, wantCode: "REQUEST_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/products", body: tt.body, contentType: tt.contentType})
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, errorBody(t, rec).Code)
		})
	}
}

func TestOrderListingAndSearch(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/v1/orders?limit=1&offset=1"})
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[v1.OrderPageResponse](t, rec)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, 2, page.Orders[0].ID)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/orders?limit=abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PAGINATION_PARAMS", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/orders/search?date_from=2024-01-01&date_to=2024-01-01"})
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[v1.OrderSearchResponse](t, rec)
	assert.Equal(t, 1, found.Total)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/orders/search?date_from=2024-02-01&date_to=2024-01-01"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE_RANGE", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/orders",
		body: `{"product_id":"PRD-404","quantity":1,"customer_email":"a@example.com"}`})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/orders/1", body: `{"status":"shipped","notes":"fragile"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, "shipped", updated["status"])
	assert.Equal(t, "fragile", updated["notes"])
}

func TestProductSearchAndPatch(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/v1/products/search?q=mouse"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[v1.ProductSearchResponse](t, rec)
	assert.Equal(t, 1, res.TotalResults)
	require.NotNil(t, res.SearchParameters.Query)
	assert.Equal(t, "mouse", *res.SearchParameters.Query)
	assert.Nil(t, res.SearchParameters.Category)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/products/search?q=%20%20"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_SEARCH_PARAMETERS", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodPatch, path: "/api/v1/products/PRD-002", body: `{"stock":7}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, decode[map[string]any](t, rec)["stock"])

	rec = s.do(t, call{method: http.MethodPatch, path: "/api/v1/products/PRD-999", body: `{"stock":7}`})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndFallbacks(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, call{method: http.MethodGet, path: "/healthz", auth: "-"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/nothing-here", auth: "-"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorBody(t, rec).Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/metrics", auth: "-"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")

	down := newTestServer(t, func(context.Context) error { return errors.New("connection refused") })
	rec = down.do(t, call{method: http.MethodGet, path: "/healthz", auth: "-"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unreachable", decode[map[string]string](t, rec)["database"])
}

func scrape(t *testing.T, s *testServer) string {
	t.Helper()
	rec := httptest.NewRecorder()
	s.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}
