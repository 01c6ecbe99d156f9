package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"milano/configs"
	"milano/repository"
	"milano/repository/memstore"
	"milano/services"
	"milano/utils"
	"milano/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-secret"

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	admin  string
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()
	return newAPIWith(t, memstore.New())
}

// newSQLiteAPI runs the same router over an in-memory SQLite database.
func newSQLiteAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := configs.OpenStore(&configs.Config{
		DBDriver: "sqlite",
		DBSource: "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return newAPIWith(t, store)
}

func newAPIWith(t *testing.T, store repository.Store) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	demo, err := configs.DemoCatalog()
	require.NoError(t, err)
	require.NoError(t, configs.SeedCatalog(context.Background(), store, demo))

	cfg := &configs.Config{
		JWTSecret:      testSecret,
		JWTTTL:         time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		CORSOrigins:    "*",
	}
	svc := services.Build(store, services.Options{Demo: demo, DefaultLang: "en", JWTSecret: testSecret, JWTTTL: time.Hour})
	svc.Auth.Cost = 4

	admin, err := utils.GenerateToken(1, "admin@milano.uz", utils.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	return &testAPI{t: t, router: NewRouter(svc, cfg, ws.NewAlertHub()), admin: admin}
}

// call sends body as JSON and decodes the response into a map.
func (a *testAPI) call(method, path string, body any, token string) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func orderBody() map[string]any {
	return map[string]any{
		"items":           []map[string]any{{"id": 1, "quantity": 2, "price": 45000}},
		"totalAmount":     90000,
		"deliveryAddress": "Amir Temur 1, Tashkent",
		"phone":           "+998901234567",
		"paymentMethod":   "cash",
	}
}

func (a *testAPI) createOrder(body map[string]any) map[string]any {
	a.t.Helper()
	code, out := a.call(http.MethodPost, "/orders", body, "")
	require.Equal(a.t, http.StatusCreated, code, out)
	assert.Equal(a.t, true, out["success"])
	return out["order"].(map[string]any)
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	code, out := api.call(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"ok": true, "mode": "memory"}, out)
}

func TestCreateOrder_ResolvesItemNames(t *testing.T) {
	api := newAPI(t)
	order := api.createOrder(orderBody())

	assert.Equal(t, "pending", order["status"])
	items := order["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Margherita Pizza", items[0].(map[string]any)["name"])
}

func TestCreateOrder_TrustsDeclaredTotal(t *testing.T) {
	api := newAPI(t)
	body := orderBody()
	body["totalAmount"] = 1
	order := api.createOrder(body)
	assert.EqualValues(t, 1, order["totalAmount"])
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	api := newAPI(t)
	body := orderBody()
	body["items"] = []map[string]any{}
	code, out := api.call(http.MethodPost, "/orders", body, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, out["error"])

	code, out = api.call(http.MethodGet, "/orders", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, out["orders"])
}

func TestAdvanceThroughWorkflow(t *testing.T) {
	for name, open := range map[string]func(*testing.T) *testAPI{
		"memory": newAPI,
		"sqlite": newSQLiteAPI,
	} {
		t.Run(name, func(t *testing.T) {
			api := open(t)
			order := api.createOrder(orderBody())
			path := fmt.Sprintf("/orders/%v", order["id"])

			prev := parseTime(t, order["updatedAt"])
			for _, status := range []string{"confirmed", "preparing", "ready", "delivered"} {
				code, out := api.call(http.MethodPatch, path, map[string]any{"status": status}, api.admin)
				require.Equal(t, http.StatusOK, code, out)
				assert.Equal(t, true, out["success"])

				listed := api.onlyOrder()
				assert.Equal(t, status, listed["status"])
				at := parseTime(t, listed["updatedAt"])
				assert.True(t, at.After(prev), "updatedAt must increase: %s then %s", prev, at)
				prev = at
			}

			assert.Equal(t, "delivered", api.onlyOrder()["status"])
			code, _ := api.call(http.MethodPatch, path, map[string]any{"status": "delivered"}, api.admin)
			assert.Equal(t, http.StatusConflict, code, "delivered is terminal")
		})
	}
}

// onlyOrder reads the single stored order back through GET /orders.
func (a *testAPI) onlyOrder() map[string]any {
	a.t.Helper()
	code, out := a.call(http.MethodGet, "/orders", nil, "")
	require.Equal(a.t, http.StatusOK, code)
	orders := out["orders"].([]any)
	require.Len(a.t, orders, 1)
	return orders[0].(map[string]any)
}

func parseTime(t *testing.T, v any) time.Time {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "timestamp %v", v)
	at, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return at
}

func TestAdvance_Rejections(t *testing.T) {
	api := newAPI(t)
	order := api.createOrder(orderBody())
	path := fmt.Sprintf("/orders/%v", order["id"])

	code, out := api.call(http.MethodPatch, "/orders/9999", map[string]any{"status": "confirmed"}, api.admin)
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, out["error"])

	code, _ = api.call(http.MethodPatch, path, map[string]any{"status": "ready"}, api.admin)
	assert.Equal(t, http.StatusConflict, code, "skipping steps")

	code, _ = api.call(http.MethodPatch, path, map[string]any{"status": "confirmed"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	customer, err := utils.GenerateToken(5, "c@milano.uz", utils.RoleCustomer, testSecret, time.Hour)
	require.NoError(t, err)
	code, _ = api.call(http.MethodPatch, path, map[string]any{"status": "confirmed"}, customer)
	assert.Equal(t, http.StatusForbidden, code)

	code, out = api.call(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pending", out["order"].(map[string]any)["status"], "rejected calls change nothing")
}

func TestOverrideStatus(t *testing.T) {
	api := newAPI(t)
	order := api.createOrder(orderBody())
	path := fmt.Sprintf("/orders/%v/status", order["id"])

	code, out := api.call(http.MethodPut, path, map[string]any{"status": "ready"}, api.admin)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "ready", out["order"].(map[string]any)["status"])

	code, _ = api.call(http.MethodPut, path, map[string]any{"status": "lost"}, api.admin)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListOrders_Buckets(t *testing.T) {
	api := newAPI(t)
	first := api.createOrder(orderBody())
	api.createOrder(orderBody())
	code, _ := api.call(http.MethodPatch, fmt.Sprintf("/orders/%v", first["id"]), map[string]any{"status": "confirmed"}, api.admin)
	require.Equal(t, http.StatusOK, code)

	for bucket, want := range map[string]int{"pending": 1, "active": 1, "completed": 0} {
		code, out := api.call(http.MethodGet, "/orders?bucket="+bucket, nil, "")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, out["orders"], want, bucket)
	}
}

func TestReviews_DuplicateAndAverage(t *testing.T) {
	api := newAPI(t)
	code, _ := api.call(http.MethodPost, "/reviews", map[string]any{"userId": 1, "menuItemId": 2, "rating": 5}, "")
	require.Equal(t, http.StatusCreated, code)
	code, _ = api.call(http.MethodPost, "/reviews", map[string]any{"userId": 2, "menuItemId": 2, "rating": 2}, "")
	require.Equal(t, http.StatusCreated, code)

	code, out := api.call(http.MethodPost, "/reviews", map[string]any{"userId": 1, "menuItemId": 2, "rating": 1}, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, out["error"])

	code, out = api.call(http.MethodGet, "/reviews?menuItemId=2", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 3.5, out["averageRating"], 1e-9)
	assert.EqualValues(t, 2, out["totalReviews"])
	assert.Len(t, out["reviews"], 2)
}

func TestCatalogEndpoints(t *testing.T) {
	api := newAPI(t)
	code, out := api.call(http.MethodGet, "/menu?lang=ru", nil, "")
	require.Equal(t, http.StatusOK, code)
	items := out["menuItems"].([]any)
	require.NotEmpty(t, items)
	assert.Equal(t, "Пицца Маргарита", items[0].(map[string]any)["name"])

	code, out = api.call(http.MethodGet, "/categories", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["categories"], 3)
}

func TestSupportTickets(t *testing.T) {
	api := newAPI(t)
	code, out := api.call(http.MethodPost, "/support", map[string]any{"userId": 3, "subject": "Late", "message": "Order is late"}, "")
	require.Equal(t, http.StatusCreated, code, out)
	ticket := out["ticket"].(map[string]any)
	assert.Equal(t, "open", ticket["status"])

	code, out = api.call(http.MethodGet, "/support?userId=3", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["tickets"], 1)

	patch := fmt.Sprintf("/support/%v", ticket["id"])
	code, _ = api.call(http.MethodPatch, patch, map[string]any{"status": "closed"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, out = api.call(http.MethodPatch, patch, map[string]any{"status": "closed"}, api.admin)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "closed", out["ticket"].(map[string]any)["status"])
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)
	reg := map[string]any{"email": "Aziz@Milano.uz", "password": "secret1", "name": "Aziz", "phone": "+998900000000"}
	code, out := api.call(http.MethodPost, "/auth/register", reg, "")
	require.Equal(t, http.StatusCreated, code, out)
	code, _ = api.call(http.MethodPost, "/auth/register", reg, "")
	assert.Equal(t, http.StatusConflict, code)

	code, _ = api.call(http.MethodPost, "/auth/login", map[string]any{"email": "aziz@milano.uz", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out = api.call(http.MethodPost, "/auth/login", map[string]any{"email": "aziz@milano.uz", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, code, out)
	token := out["token"].(string)

	code, out = api.call(http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "aziz@milano.uz", out["user"].(map[string]any)["email"])

	code, out = api.call(http.MethodPost, "/admin/check", map[string]any{"email": "aziz@milano.uz"}, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["isAdmin"])

	code, _ = api.call(http.MethodGet, "/admin/users", nil, token)
	assert.Equal(t, http.StatusForbidden, code)
	code, out = api.call(http.MethodGet, "/admin/users", nil, api.admin)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["users"], 1)
}

func TestAnalytics(t *testing.T) {
	api := newAPI(t)
	done := api.createOrder(orderBody())
	api.createOrder(orderBody())
	code, _ := api.call(http.MethodPut, fmt.Sprintf("/orders/%v/status", done["id"]), map[string]any{"status": "delivered"}, api.admin)
	require.Equal(t, http.StatusOK, code)

	code, out := api.call(http.MethodGet, "/analytics?period=day", nil, api.admin)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "day", out["period"])
	assert.EqualValues(t, 2, out["totalOrders"])
	assert.EqualValues(t, 90000, out["totalRevenue"], "only delivered orders count as revenue")
}

func TestGeocodeReverse(t *testing.T) {
	api := newAPI(t)
	code, out := api.call(http.MethodGet, "/geocode/reverse?lat=41.311&lng=69.279", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Lat: 41.311000, Lng: 69.279000", out["address"])

	code, _ = api.call(http.MethodGet, "/geocode/reverse?lat=120&lng=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
}
