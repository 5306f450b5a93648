package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oakline/storefront-backend/internal/cart"
	"github.com/oakline/storefront-backend/internal/catalog"
	"github.com/oakline/storefront-backend/internal/coupon"
	"github.com/oakline/storefront-backend/internal/identity"
	"github.com/oakline/storefront-backend/internal/navigation"
	"github.com/oakline/storefront-backend/internal/orders"
	"github.com/oakline/storefront-backend/internal/preferences"
	"github.com/oakline/storefront-backend/internal/wishlist"
	"github.com/oakline/storefront-backend/pkg/config"
	"github.com/oakline/storefront-backend/pkg/kvstore"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		KV:  config.KVConfig{Backend: config.KVBackendMemory},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "storefront", ExpirationMinutes: 60},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	store := kvstore.NewMemory()
	ctx := context.Background()

	svcs := Services{
		Catalog:     catalog.NewService(ctx, store, nil, true),
		Identity:    identity.NewService(ctx, store, nil, cfg.JWT, true),
		Cart:        cart.NewService(ctx, store, nil),
		Coupon:      coupon.NewService(ctx, store, nil),
		Orders:      orders.NewService(ctx, store, nil),
		Wishlist:    wishlist.NewService(ctx, store, nil),
		Navigation:  navigation.NewService(ctx, store, nil),
		Preferences: preferences.NewService(ctx, store, nil),
	}

	server := httptest.NewServer(NewRouter(cfg, nil, store, nil, svcs))
	t.Cleanup(server.Close)
	return server
}

type envelope struct {
	Data  map[string]json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, method, url, token string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, env
}

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()
	status, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d", email, status)
	}
	var token string
	if err := json.Unmarshal(env.Data["token"], &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
	}
}

func TestLoginDistinguishesUnknownEmail(t *testing.T) {
	server := newTestServer(t)

	status, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "pw",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "NO_ACCOUNT" {
		t.Fatalf("expected NO_ACCOUNT, got %+v", env.Error)
	}

	status, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %+v", env.Error)
	}
}

func TestProductMutationsRequireStaffRole(t *testing.T) {
	server := newTestServer(t)

	payload := map[string]any{"title": "Widget", "price": "12.50", "category": "Tools", "stock": 3}

	status, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/products", "", payload)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	// A fresh registration is a customer, which is not enough.
	status, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "pw",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: status %d", status)
	}
	var customerToken string
	if err := json.Unmarshal(env.Data["token"], &customerToken); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	status, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/products", customerToken, payload)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", status)
	}

	sellerToken := login(t, server, "seller@example.com", "seller")
	status, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/products", sellerToken, payload)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 for seller, got %d", status)
	}
}

func TestCartCouponOrderFlow(t *testing.T) {
	server := newTestServer(t)

	// Two headphones at 99.99 plus one denim jacket at 69.99.
	for _, body := range []map[string]any{
		{"productId": 1, "quantity": 2},
		{"productId": 3, "quantity": 1},
	} {
		status, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/cart/items", "", body)
		if status != http.StatusCreated {
			t.Fatalf("add to cart: status %d", status)
		}
	}

	status, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/coupons/apply", "", map[string]string{"code": "save10"})
	if status != http.StatusOK {
		t.Fatalf("apply coupon: status %d, error %+v", status, env.Error)
	}

	token := login(t, server, "admin@example.com", "admin")
	status, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/orders", token, map[string]string{
		"name": "Ada Lovelace", "email": "ada@example.com",
		"line1": "1 Analytical Way", "city": "London", "postalCode": "SW1", "country": "UK",
	})
	if status != http.StatusCreated {
		t.Fatalf("place order: status %d, error %+v", status, env.Error)
	}

	var order struct {
		ID     string `json:"id"`
		Total  string `json:"total"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data["order"], &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Status != "PLACED" {
		t.Fatalf("expected PLACED, got %s", order.Status)
	}
	if order.Total != "269.97" {
		t.Fatalf("expected pre-discount total 269.97, got %s", order.Total)
	}

	// Placement clears the cart and the coupon.
	status, env = doJSON(t, http.MethodGet, server.URL+"/api/v1/cart", "", nil)
	if status != http.StatusOK {
		t.Fatalf("get cart: status %d", status)
	}
	var count int
	if err := json.Unmarshal(env.Data["itemCount"], &count); err != nil {
		t.Fatalf("decode itemCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty cart after placement, got %d items", count)
	}

	status, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/orders/"+order.ID+"/cancel", token, nil)
	if status != http.StatusOK {
		t.Fatalf("cancel order: status %d", status)
	}
	if err := json.Unmarshal(env.Data["order"], &order); err != nil {
		t.Fatalf("decode cancelled order: %v", err)
	}
	if order.Status != "CANCELLED" {
		t.Fatalf("expected CANCELLED, got %s", order.Status)
	}
}

func TestCouponRejectionIsUnprocessable(t *testing.T) {
	server := newTestServer(t)

	status, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/coupons/validate", "", map[string]string{"code": "NOPE"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "RULE_VIOLATION" {
		t.Fatalf("expected RULE_VIOLATION, got %+v", env.Error)
	}
}

func TestUsersEndpointsAreAdminOnly(t *testing.T) {
	server := newTestServer(t)

	sellerToken := login(t, server, "seller@example.com", "seller")
	status, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/users", sellerToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for seller, got %d", status)
	}

	adminToken := login(t, server, "admin@example.com", "admin")
	status, env := doJSON(t, http.MethodGet, server.URL+"/api/v1/users", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", status)
	}
	var users []struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data["users"], &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 2 || users[0].Email != "admin@example.com" {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestNavigationAndThemeRoundTrip(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, http.MethodPut, server.URL+"/api/v1/navigation/last-route", "", map[string]string{"route": "/login"})
	if status != http.StatusOK {
		t.Fatalf("set last route: status %d", status)
	}
	status, env := doJSON(t, http.MethodGet, server.URL+"/api/v1/navigation/last-route", "", nil)
	if status != http.StatusOK {
		t.Fatalf("get last route: status %d", status)
	}
	var route string
	if err := json.Unmarshal(env.Data["route"], &route); err != nil {
		t.Fatalf("decode route: %v", err)
	}
	if route != "" {
		t.Fatalf("login must never be recorded, got %q", route)
	}

	status, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/preferences/theme/toggle", "", nil)
	if status != http.StatusOK {
		t.Fatalf("toggle theme: status %d", status)
	}
	var theme string
	if err := json.Unmarshal(env.Data["theme"], &theme); err != nil {
		t.Fatalf("decode theme: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("expected dark after toggle, got %q", theme)
	}
}

func TestWishlistToggleRoundTrip(t *testing.T) {
	server := newTestServer(t)

	status, env := doJSON(t, http.MethodPost, server.URL+"/api/v1/wishlist/toggle", "", map[string]any{"productId": 2})
	if status != http.StatusOK {
		t.Fatalf("toggle: status %d", status)
	}
	var saved bool
	if err := json.Unmarshal(env.Data["saved"], &saved); err != nil {
		t.Fatalf("decode saved: %v", err)
	}
	if !saved {
		t.Fatal("expected product saved")
	}

	status, env = doJSON(t, http.MethodPost, server.URL+"/api/v1/wishlist/toggle", "", map[string]any{"productId": 2})
	if status != http.StatusOK {
		t.Fatalf("toggle again: status %d", status)
	}
	if err := json.Unmarshal(env.Data["saved"], &saved); err != nil {
		t.Fatalf("decode saved: %v", err)
	}
	if saved {
		t.Fatal("expected product removed on second toggle")
	}
}
