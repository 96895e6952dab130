package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-care-management/internal/adapters/auth/jwtauth"
	"pet-care-management/internal/adapters/auth/password"
	"pet-care-management/internal/config"
	"pet-care-management/internal/router"

	"golang.org/x/crypto/bcrypt"
)

const testSecret = "router-test-secret-with-at-least-32-bytes"

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newServer(t *testing.T, rl config.RateLimitConfig) *httptest.Server {
	t.Helper()

	tokens, err := jwtauth.NewService(testSecret, 30*time.Minute)
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}
	h, err := router.NewRouter(context.Background(), router.Options{
		App:            config.AppConfig{Name: "pet-care-management", Environment: "test", Version: "1.0.0"},
		Verifier:       tokens,
		Issuer:         tokens,
		Passwords:      password.NewBcrypt(bcrypt.MinCost),
		RateLimit:      rl,
		BootstrapAdmin: config.BootstrapAdmin{Username: "admin", Password: "admin123"},
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_OwnerOrderFlow(t *testing.T) {
	ts := newServer(t, config.RateLimitConfig{})

	// 1) Admin bootstrap entra y crea un servicio
	adminToken := login(t, ts.URL, "admin", "admin123")
	var service struct {
		ID    int64   `json:"id"`
		Price float64 `json:"price"`
	}
	{
		env := call(t, ts.URL, "POST", "/api/services", adminToken, map[string]any{
			"name":     "Baño completo",
			"category": "grooming",
			"price":    50.00,
		})
		expectCode(t, env, 200, "create service")
		decode(t, env, &service)
		if service.ID == 0 || service.Price != 50 {
			t.Fatalf("unexpected service: %+v", service)
		}
	}

	// 2) Alice se registra; el duplicado falla con 400
	register(t, ts.URL, "alice")
	{
		env := call(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
			"username":         "alice",
			"password":         "secret1",
			"confirm_password": "secret1",
		})
		expectCode(t, env, 400, "duplicate register")
	}

	// 3) Password incorrecto => 401
	{
		env := call(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
			"username": "alice",
			"password": "wrong-password",
		})
		expectCode(t, env, 401, "wrong password")
	}
	aliceToken := login(t, ts.URL, "alice", "secret1")

	// 4) Alice registra su mascota y pide el servicio
	var pet struct {
		ID      int64 `json:"id"`
		OwnerID int64 `json:"owner_id"`
	}
	{
		env := call(t, ts.URL, "POST", "/api/pets", aliceToken, map[string]any{
			"name":    "Milo",
			"species": "dog",
			"gender":  "male",
		})
		expectCode(t, env, 200, "create pet")
		decode(t, env, &pet)
	}

	var order struct {
		ID          int64   `json:"id"`
		OrderNo     string  `json:"order_no"`
		UserID      int64   `json:"user_id"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"total_amount"`
	}
	{
		env := call(t, ts.URL, "POST", "/api/orders", aliceToken, map[string]any{
			"pet_id":     pet.ID,
			"service_id": service.ID,
		})
		expectCode(t, env, 200, "create order")
		decode(t, env, &order)
		if order.Status != "pending" || order.TotalAmount != 50 || order.UserID != pet.OwnerID {
			t.Fatalf("unexpected order: %+v", order)
		}
		if len(order.OrderNo) != len("ORD")+14+4 {
			t.Fatalf("unexpected order_no %q", order.OrderNo)
		}
	}

	// 5) Bob no puede ver la orden de Alice
	register(t, ts.URL, "bob")
	bobToken := login(t, ts.URL, "bob", "secret1")
	{
		env := call(t, ts.URL, "GET", fmt.Sprintf("/api/orders/%d", order.ID), bobToken, nil)
		expectCode(t, env, 403, "bob reads alice order")
	}

	// 6) Listado de Bob no incluye la orden de Alice
	{
		env := call(t, ts.URL, "GET", "/api/orders", bobToken, nil)
		expectCode(t, env, 200, "bob lists orders")
		var page struct {
			Total int64 `json:"total"`
		}
		decode(t, env, &page)
		if page.Total != 0 {
			t.Fatalf("expected 0 orders for bob, got %d", page.Total)
		}
	}

	// 7) Dashboard: owner => 403, admin => stats
	{
		env := call(t, ts.URL, "GET", "/api/dashboard/stats", aliceToken, nil)
		expectCode(t, env, 403, "owner dashboard")
	}
	{
		env := call(t, ts.URL, "GET", "/api/dashboard/stats", adminToken, nil)
		expectCode(t, env, 200, "admin dashboard")
		var stats struct {
			TotalUsers   int64   `json:"total_users"`
			TotalPets    int64   `json:"total_pets"`
			TotalOrders  int64   `json:"total_orders"`
			TotalRevenue float64 `json:"total_revenue"`
			ActiveOrders int64   `json:"active_orders"`
		}
		decode(t, env, &stats)
		if stats.TotalUsers != 3 || stats.TotalPets != 1 || stats.TotalOrders != 1 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
		if stats.TotalRevenue != 0 || stats.ActiveOrders != 0 {
			t.Fatalf("pending order must not count: %+v", stats)
		}
	}

	// 8) Alice puede cancelar, pero no confirmar
	{
		env := call(t, ts.URL, "PUT", fmt.Sprintf("/api/orders/%d", order.ID), aliceToken, map[string]any{
			"status": "confirmed",
		})
		expectCode(t, env, 403, "owner confirms order")
	}
	{
		env := call(t, ts.URL, "PUT", fmt.Sprintf("/api/orders/%d", order.ID), aliceToken, map[string]any{
			"status": "cancelled",
		})
		expectCode(t, env, 200, "owner cancels order")
	}
}

func TestHTTP_MissingToken(t *testing.T) {
	ts := newServer(t, config.RateLimitConfig{})

	env := call(t, ts.URL, "GET", "/api/pets", "", nil)
	expectCode(t, env, 401, "missing token")

	env = call(t, ts.URL, "GET", "/api/pets", "not-a-jwt", nil)
	expectCode(t, env, 401, "garbage token")
}

func TestHTTP_UnknownRoute(t *testing.T) {
	ts := newServer(t, config.RateLimitConfig{})

	st, body := doReq(t, ts.URL, "GET", "/api/nope", "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", st, string(body))
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Code != 404 {
		t.Fatalf("expected envelope with code 404, got %s", string(body))
	}
}

func TestHTTP_LoginRateLimited(t *testing.T) {
	ts := newServer(t, config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2})

	payload := map[string]any{"username": "admin", "password": "nope-nope"}
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/api/auth/login", "", payload)
		if st != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d body=%s", i+1, st, string(body))
		}
	}

	st, body := doReq(t, ts.URL, "POST", "/api/auth/login", "", payload)
	if st != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body=%s", st, string(body))
	}
}

func TestHTTP_LoginRateLimitIgnoresForwardedFor(t *testing.T) {
	ts := newServer(t, config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2})

	b, _ := json.Marshal(map[string]any{"username": "admin", "password": "nope-nope"})
	limited := 0
	for i := 0; i < 20; i++ {
		req, err := http.NewRequest("POST", ts.URL+"/api/auth/login", bytes.NewReader(b))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 18 {
		t.Fatalf("expected 18 limited requests, got %d", limited)
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t, config.RateLimitConfig{})

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var env envelope
	_ = json.Unmarshal(body, &env)
	if env.Code != 200 {
		t.Fatalf("unexpected health body=%s", string(body))
	}
	var info map[string]string
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode health data: %v", err)
	}
	if info["environment"] != "test" || info["version"] != "1.0.0" || info["storage"] != "memory" {
		t.Fatalf("unexpected health data=%v", info)
	}
}

func register(t *testing.T, baseURL, username string) {
	t.Helper()

	env := call(t, baseURL, "POST", "/api/auth/register", "", map[string]any{
		"username":         username,
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	expectCode(t, env, 200, "register "+username)

	var u struct {
		Role string `json:"role"`
	}
	decode(t, env, &u)
	if u.Role != "owner" {
		t.Fatalf("register %s: expected role owner, got %q", username, u.Role)
	}
}

func login(t *testing.T, baseURL, username, pass string) string {
	t.Helper()

	env := call(t, baseURL, "POST", "/api/auth/login", "", map[string]any{
		"username": username,
		"password": pass,
	})
	expectCode(t, env, 200, "login "+username)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, env, &resp)
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Fatalf("login %s: unexpected token response %s", username, string(env.Data))
	}
	return resp.AccessToken
}

// call exige HTTP 200: los errores de negocio viajan en el envelope.
func call(t *testing.T, baseURL, method, path, token string, payload any) envelope {
	t.Helper()

	st, body := doReq(t, baseURL, method, path, token, payload)
	if st != http.StatusOK {
		t.Fatalf("%s %s: expected HTTP 200, got %d body=%s", method, path, st, string(body))
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("%s %s: invalid envelope %s", method, path, string(body))
	}
	return env
}

func expectCode(t *testing.T, env envelope, code int, step string) {
	t.Helper()
	if env.Code != code {
		t.Fatalf("%s: expected code %d, got %d msg=%q", step, code, env.Code, env.Msg)
	}
}

func decode(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(env.Data))
	}
}

func doReq(t *testing.T, baseURL, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}
