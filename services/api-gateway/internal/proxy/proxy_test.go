package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// closeNotifyRecorder implements http.CloseNotifier, which the Go 1.21
// httputil.ReverseProxy requires of the ResponseWriter.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool { return make(chan bool) }

func newRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder()}
}

func newUpstream(t *testing.T, gotHeader *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotHeader = r.Header.Get("X-User-Id")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newEngine(t *testing.T, routes []Route) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gw, err := New(routes)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	r := gin.New()
	gw.Register(r)
	return r
}

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestPublicRouteForwardsWithoutAuth(t *testing.T) {
	var got string
	up := newUpstream(t, &got)
	r := newEngine(t, []Route{{Prefix: "/api/search", Upstream: up.URL}})

	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search?q=beach", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthRouteRejectsMissingToken(t *testing.T) {
	var got string
	up := newUpstream(t, &got)
	r := newEngine(t, []Route{{Prefix: "/api/bookings", Upstream: up.URL, RequireAuth: true}})

	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRouteInjectsVerifiedUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	var got string
	up := newUpstream(t, &got)
	r := newEngine(t, []Route{{Prefix: "/api/bookings", Upstream: up.URL, RequireAuth: true}})

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "U42"))
	// A spoofed identity header must not survive the gateway.
	req.Header.Set("X-User-Id", "attacker")
	w := newRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got != "U42" {
		t.Fatalf("upstream saw X-User-Id = %q, want U42", got)
	}
}

func TestSpoofedIdentityStrippedOnPublicRoute(t *testing.T) {
	var got string
	up := newUpstream(t, &got)
	r := newEngine(t, []Route{{Prefix: "/api/search", Upstream: up.URL}})

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("X-User-Id", "attacker")
	w := newRecorder()
	r.ServeHTTP(w, req)
	if got != "" {
		t.Fatalf("upstream saw X-User-Id = %q, want empty", got)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	r := newEngine(t, []Route{})
	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
