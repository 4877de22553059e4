package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront-next/internal/config"

	"github.com/gin-gonic/gin"
)

func newCORSEngine(cfg config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := newCORSEngine(config.CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}, MaxAge: 600})

	// 浏览器发送的请求头列表为小写、按字典序排列
	for _, requested := range []string{"authorization", "authorization,content-type"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", requested)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("preflight %q want 204 got %d", requested, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
			t.Fatalf("preflight %q allow origin want echo got %q", requested, got)
		}
		if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
			t.Fatalf("preflight %q max age want 600 got %s", requested, got)
		}
		if !strings.Contains(strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "authorization") {
			t.Fatalf("preflight %q should allow authorization, got %q", requested, w.Header().Get("Access-Control-Allow-Headers"))
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "x-unknown")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted request header should be refused, got %q", got)
	}
}

func TestCORSMiddlewareActualRequest(t *testing.T) {
	r := newCORSEngine(config.CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("actual request want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Retry-After") {
		t.Fatalf("rate limit headers should be exposed, got %q", w.Header().Get("Access-Control-Expose-Headers"))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unknown origin should not be allowed, got %s", got)
	}
}
