package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fruito-api/internal/core/config"
	"fruito-api/internal/repo/repotest"
)

const (
	adminEmail = "admin@fruito.local"
	adminPass  = "admin-pass"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.App{Name: "fruito-api", Env: "test"},
		JWT:      config.JWT{Secret: "jwt-test", Issuer: "fruito-test", AccessTokenTTLMin: 60},
		Security: config.Security{Secret: "pepper", BcryptCost: bcrypt.MinCost},
		Seed:     config.Seed{AdminEmail: adminEmail, AdminPassword: adminPass, AdminName: "Admin"},
		DB:       config.DB{Driver: "sqlite", AutoMigrate: true},
		Redis:    config.Redis{ProductsTTLSec: 60},
	}
}

type harness struct {
	t     *testing.T
	app   *App
	api   *gin.Engine
	admin *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := NewWithStores(testConfig(), nil, repotest.NewStores(t), Extras{})
	require.NoError(t, a.Bootstrap(context.Background()))
	return &harness{t: t, app: a, api: a.APIEngine(), admin: a.AdminEngine()}
}

func (h *harness) call(e http.Handler, method, path string, body any, token string) (int, map[string]any, string) {
	h.t.Helper()
	var rd *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = strings.NewReader(string(b))
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	return w.Code, m, w.Body.String()
}

func (h *harness) adminToken() string {
	code, m, _ := h.call(h.api, http.MethodPost, "/auth/admin/login", map[string]string{"email": adminEmail, "password": adminPass}, "")
	require.Equal(h.t, http.StatusOK, code)
	return m["token"].(string)
}

func (h *harness) createProduct(name string, price float64, stock int) string {
	code, m, body := h.call(h.api, http.MethodPost, "/admin/products", map[string]any{
		"product":     map[string]any{"name": name, "price": price, "stock": stock},
		"credentials": map[string]string{"email": adminEmail, "password": adminPass},
	}, "")
	require.Equal(h.t, http.StatusOK, code, body)
	return m["id"].(string)
}

func TestRootHealthDiag(t *testing.T) {
	h := newHarness(t)

	code, m, _ := h.call(h.api, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Fruito API Running", m["message"])

	code, _, body := h.call(h.api, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"ok":1}`, body)

	code, m, _ = h.call(h.api, http.MethodGet, "/test", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Connected", m["connection_status"])
	assert.Equal(t, "❌ Not Set", m["database_url"])
	assert.NotEmpty(t, m["collections"])

	code, _, body = h.call(h.api, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "http_requests_total")
}

func TestSignupLoginFlow(t *testing.T) {
	h := newHarness(t)

	code, m, _ := h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": "Ann", "email": "ann@example.com", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user", m["role"])
	assert.Len(t, m["id"], 32)
	assert.NotContains(t, m, "password_hash")

	code, m, _ = h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": "Ann2", "email": "ann@example.com", "password": "pw2"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email already registered", m["detail"])

	code, m, _ = h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": "Eve", "email": adminEmail, "password": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "This email is reserved for admin", m["detail"])
	assert.EqualValues(t, 400, m["code"])

	code, _, _ = h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": "Bad", "email": "not-an-email", "password": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, m, _ = h.call(h.api, http.MethodPost, "/auth/user/login",
		map[string]string{"email": "ann@example.com", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user", m["role"])
	assert.NotEmpty(t, m["expires_at"])
	token := m["token"].(string)

	code, m, _ = h.call(h.api, http.MethodGet, "/me", nil, token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ann@example.com", m["email"])

	code, _, _ = h.call(h.api, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, m, _ = h.call(h.api, http.MethodPost, "/auth/user/login",
		map[string]string{"email": "ann@example.com", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", m["detail"])

	code, m, _ = h.call(h.api, http.MethodPost, "/auth/user/login",
		map[string]string{"email": adminEmail, "password": adminPass}, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not a user account", m["detail"])

	code, m, _ = h.call(h.api, http.MethodPost, "/auth/admin/login",
		map[string]string{"email": "ann@example.com", "password": "pw"}, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access denied", m["detail"])

	code, m, _ = h.call(h.api, http.MethodPost, "/auth/admin/login",
		map[string]string{"email": adminEmail, "password": adminPass}, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", m["role"])
}

func TestAdminProductAuthorization(t *testing.T) {
	h := newHarness(t)
	product := map[string]any{"name": "Apple", "price": 1.5, "stock": 3}

	code, m, _ := h.call(h.api, http.MethodPost, "/admin/products", map[string]any{
		"product":     product,
		"credentials": map[string]string{"email": adminEmail, "password": "wrong"},
	}, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access denied", m["detail"])

	code, _, _ = h.call(h.api, http.MethodPost, "/admin/products", map[string]any{"product": product}, "")
	assert.Equal(t, http.StatusForbidden, code)

	_, _, _ = h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": "U", "email": "u@example.com", "password": "pw"}, "")
	_, um, _ := h.call(h.api, http.MethodPost, "/auth/user/login",
		map[string]string{"email": "u@example.com", "password": "pw"}, "")
	code, _, _ = h.call(h.api, http.MethodPost, "/admin/products", map[string]any{"product": product}, um["token"].(string))
	assert.Equal(t, http.StatusForbidden, code)

	code, m, _ = h.call(h.api, http.MethodPost, "/admin/products", map[string]any{"product": product}, h.adminToken())
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, m["id"], 32)
	assert.Equal(t, "Apple", m["name"])
	assert.Nil(t, m["description"])
	assert.EqualValues(t, 3, m["stock"])

	code, _, _ = h.call(h.api, http.MethodPost, "/admin/products", map[string]any{
		"product":     map[string]any{"name": "Neg", "price": -1},
		"credentials": map[string]string{"email": adminEmail, "password": adminPass},
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProductsAndOrders(t *testing.T) {
	h := newHarness(t)

	code, _, body := h.call(h.api, http.MethodGet, "/products", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, body)

	banana := h.createProduct("Banana", 2.50, 10)
	cherry := h.createProduct("Cherry", 4, 2)

	code, _, body = h.call(h.api, http.MethodGet, "/products", nil, "")
	assert.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list, 2)

	code, m, _ := h.call(h.api, http.MethodPost, "/orders", map[string]any{
		"user_id": "buyer-1",
		"items":   []map[string]any{{"product_id": banana, "quantity": 3}},
	}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 7.5, m["total"])
	assert.Equal(t, "placed", m["status"])
	assert.Equal(t, "buyer-1", m["user_id"])
	orderID := m["id"].(string)

	_, m, _ = h.call(h.api, http.MethodGet, "/products/"+banana, nil, "")
	assert.EqualValues(t, 7, m["stock"])

	code, m, _ = h.call(h.api, http.MethodGet, "/orders/"+orderID, nil, "")
	require.Equal(t, http.StatusOK, code)
	items := m["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Banana", items[0].(map[string]any)["name"])

	code, m, _ = h.call(h.api, http.MethodPost, "/orders", map[string]any{
		"user_id": "buyer-1",
		"items":   []map[string]any{{"product_id": cherry, "quantity": 3}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Insufficient stock for Cherry", m["detail"])

	code, m, _ = h.call(h.api, http.MethodPost, "/orders", map[string]any{
		"user_id": "buyer-1",
		"items":   []map[string]any{{"product_id": "zzz", "quantity": 1}},
	}, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product not found", m["detail"])

	code, _, _ = h.call(h.api, http.MethodPost, "/orders", map[string]any{
		"user_id": "buyer-1",
		"items":   []map[string]any{{"product_id": banana, "quantity": 0}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, m, _ = h.call(h.api, http.MethodGet, "/orders/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Order not found", m["detail"])

	code, _, _ = h.call(h.api, http.MethodGet, "/products/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestInputLengthBoundaries(t *testing.T) {
	h := newHarness(t)

	longName := strings.Repeat("n", 300)
	code, m, body := h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": longName, "email": "long@example.com", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, longName, m["name"])

	tooLongEmail := strings.Repeat("e", 256-len("@example.com")) + "@example.com"
	code, _, _ = h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": "x", "email": tooLongEmail, "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, code)

	image := "https://cdn.example.com/" + strings.Repeat("i", 1000) + ".png"
	code, m, body = h.call(h.api, http.MethodPost, "/admin/products", map[string]any{
		"product":     map[string]any{"name": longName, "price": 1, "stock": 5, "image": image},
		"credentials": map[string]string{"email": adminEmail, "password": adminPass},
	}, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, image, m["image"])
	pid := m["id"].(string)

	order := func(uid string) (int, map[string]any) {
		code, m, _ := h.call(h.api, http.MethodPost, "/orders", map[string]any{
			"user_id": uid,
			"items":   []map[string]any{{"product_id": pid, "quantity": 1}},
		}, "")
		return code, m
	}
	code, m = order(strings.Repeat("u", 255))
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, m["user_id"], 255)

	code, _ = order(strings.Repeat("u", 256))
	assert.Equal(t, http.StatusBadRequest, code)

	_, m, _ = h.call(h.api, http.MethodGet, "/products/"+pid, nil, "")
	assert.EqualValues(t, 4, m["stock"])
}

func TestAdminEngine(t *testing.T) {
	h := newHarness(t)
	_, _, _ = h.call(h.api, http.MethodPost, "/auth/user/signup",
		map[string]string{"name": "U", "email": "u@example.com", "password": "pw"}, "")
	_, um, _ := h.call(h.api, http.MethodPost, "/auth/user/login",
		map[string]string{"email": "u@example.com", "password": "pw"}, "")
	userToken := um["token"].(string)
	adminToken := h.adminToken()

	code, _, _ := h.call(h.admin, http.MethodGet, "/admin/v1/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _, _ = h.call(h.admin, http.MethodGet, "/admin/v1/users", nil, userToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, m, _ := h.call(h.admin, http.MethodGet, "/admin/v1/users?limit=10", nil, adminToken)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, m["total"])

	code, m, _ = h.call(h.admin, http.MethodPost, "/admin/v1/products",
		map[string]any{"name": "Plum", "price": 0.75, "stock": 8}, adminToken)
	require.Equal(t, http.StatusCreated, code)
	pid := m["id"].(string)

	_, _, _ = h.call(h.api, http.MethodPost, "/orders", map[string]any{
		"user_id": "someone",
		"items":   []map[string]any{{"product_id": pid, "quantity": 2}},
	}, "")
	code, m, _ = h.call(h.admin, http.MethodGet, "/admin/v1/orders?user_id=someone", nil, adminToken)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, m["total"])

	code, _, _ = h.call(h.admin, http.MethodGet, "/admin/v1/users?limit=1000", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = h.call(h.admin, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminEngineRechecksStore(t *testing.T) {
	h := newHarness(t)
	oldToken := h.adminToken()
	code, _, _ := h.call(h.admin, http.MethodGet, "/admin/v1/users", nil, oldToken)
	require.Equal(t, http.StatusOK, code)

	// 换了保留邮箱后重启：旧管理员被降级，但手里的令牌还没过期
	cfg := testConfig()
	cfg.Seed.AdminEmail = "boss@fruito.local"
	next := NewWithStores(cfg, nil, h.app.Stores, Extras{})
	require.NoError(t, next.Bootstrap(context.Background()))
	admin := next.AdminEngine()

	for _, path := range []string{"/admin/v1/users", "/admin/v1/orders"} {
		code, m, _ := h.call(admin, http.MethodGet, path, nil, oldToken)
		assert.Equal(t, http.StatusForbidden, code, path)
		assert.Equal(t, "Admin access denied", m["detail"], path)
	}
	code, _, _ = h.call(admin, http.MethodPost, "/admin/v1/products",
		map[string]any{"name": "Fig", "price": 1.0, "stock": 1}, oldToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, m, _ := h.call(next.APIEngine(), http.MethodPost, "/auth/admin/login",
		map[string]string{"email": "boss@fruito.local", "password": adminPass}, "")
	require.Equal(t, http.StatusOK, code)
	code, _, _ = h.call(admin, http.MethodGet, "/admin/v1/users", nil, m["token"].(string))
	assert.Equal(t, http.StatusOK, code)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.app.Bootstrap(context.Background()))
	us, total, err := h.app.Users.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "admin", us[0].Role)
	assert.NoError(t, h.app.Close())
}
