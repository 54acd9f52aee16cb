package guard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/leynos/env-debug-mcp/kit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'none'") {
		t.Errorf("CSP = %q", got)
	}
	if got := rec.Header().Get("Referrer-Policy"); got != "no-referrer" {
		t.Errorf("Referrer-Policy = %q", got)
	}
}

func TestMaxBody_RejectsOversized(t *testing.T) {
	var readErr error
	h := MaxBody(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		_, readErr = r.Body.Read(buf)
		w.WriteHeader(http.StatusOK)
	}))

	body := strings.NewReader(strings.Repeat("x", 64))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/", body))

	if readErr == nil {
		t.Fatal("expected read error for oversized body")
	}
}

func TestMaxBody_AllowsSmall(t *testing.T) {
	h := MaxBody(1024)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/", strings.NewReader("{}")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	var gotID, gotTransport string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = kit.GetRequestID(r.Context())
		gotTransport = kit.GetTransport(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/mcp", nil))

	if gotID == "" {
		t.Fatal("request ID not injected into context")
	}
	if gotTransport != "http" {
		t.Fatalf("transport = %q, want http", gotTransport)
	}
	if header := rec.Header().Get("X-Request-ID"); header != gotID {
		t.Fatalf("X-Request-ID = %q, context = %q", header, gotID)
	}
}

func TestBearerAuth_EmptyHashDisables(t *testing.T) {
	h := BearerAuth("")(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	h := BearerAuth(string(hash))(okHandler())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer s3cret-token", http.StatusOK},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic s3cret-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDefaultStack_Order(t *testing.T) {
	stack := DefaultStack()
	if len(stack) != 3 {
		t.Fatalf("stack size = %d, want 3", len(stack))
	}

	h := okHandler()
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Header().Get("X-Frame-Options") == "" {
		t.Error("security headers not applied")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("request ID not applied")
	}
}
