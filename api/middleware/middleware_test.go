package middleware

import (
	"net/http"
	"net/http/httptest"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
)

func newTestMiddleware() *Middleware {
	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{
		Auth:      &structs.AuthConfig{JWTSecret: "secret", AdminRoles: []string{"admin"}},
		RateLimit: &structs.RateLimitConfig{Enabled: true, RequestsPerWindow: 1, Window: time.Minute},
	}
	return NewMiddleware(cfg, logger, services.NewAuthService(cfg.Auth, logger), services.NewCacheService(logger, nil, nil))
}

func TestGetClientIP(t *testing.T) {
	mw := newTestMiddleware()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	if ip := mw.getClientIP(r); ip != "10.0.0.1" {
		t.Fatalf("expected remote addr host, got %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := mw.getClientIP(r); ip != "203.0.113.7" {
		t.Fatalf("expected first forwarded ip, got %q", ip)
	}
}

func TestGenerateRateLimitKey(t *testing.T) {
	mw := newTestMiddleware()

	tests := map[string]string{
		"/products":          "1.2.3.4:/products",
		"/products/":         "1.2.3.4:/products",
		"/products/abc":      "1.2.3.4:/products/:id",
		"/products/types":    "1.2.3.4:/products/types",
		"/admin/products/ab": "1.2.3.4:/admin/products/ab",
	}
	for path, want := range tests {
		if got := mw.generateRateLimitKey("1.2.3.4", path); got != want {
			t.Errorf("%s: expected %q, got %q", path, want, got)
		}
	}
}

func TestRateLimitPassesThroughWithoutCache(t *testing.T) {
	mw := newTestMiddleware()
	h := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for range 3 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/products", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected the request through, got %d", w.Code)
		}
	}
}

func TestAdminAuthMiddlewareStoresClaims(t *testing.T) {
	mw := newTestMiddleware()

	var claims *structs.AuthClaims
	h := mw.AdminAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ = GetClaimsFromContext(r.Context())
	}))

	token, _ := lib.SignToken("user-7", "admin", "secret", time.Minute)
	r := httptest.NewRequest("GET", "/admin/products", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)

	if claims == nil || claims.Sub != "user-7" {
		t.Fatalf("expected claims in context, got %+v", claims)
	}
}
