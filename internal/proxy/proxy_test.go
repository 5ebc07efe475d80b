package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pecadorcelestial/panda-proxy/internal/gate"
	"github.com/pecadorcelestial/panda-proxy/internal/token"

	"github.com/gin-gonic/gin"
)

// closeNotifyRecorder adds the http.CloseNotifier method that
// httputil.ReverseProxy expects from the response writer on this Go
// version; httptest.ResponseRecorder alone does not implement it.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestForwarder_StampsVerifiedIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotUser, gotType, gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get(HeaderUser)
		gotType = r.Header.Get(HeaderCallerType)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"echo":true}`)
	}))
	defer upstream.Close()

	f, err := NewForwarder(upstream.URL)
	if err != nil {
		t.Fatalf("forwarder: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := gate.WithCaller(c.Request.Context(), "ana@example.com", token.CallerEmployee)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.NoRoute(f.Handler())

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/42", nil)
	// A spoofed identity header must not survive the hop.
	req.Header.Set(HeaderUser, "mallory@example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected upstream status relayed, got %d", w.Code)
	}
	if gotPath != "/invoices/42" {
		t.Fatalf("expected path preserved, got %q", gotPath)
	}
	if gotUser != "ana@example.com" {
		t.Fatalf("expected verified user header, got %q", gotUser)
	}
	if gotType != string(token.CallerEmployee) {
		t.Fatalf("expected caller type header, got %q", gotType)
	}
}

func TestForwarder_AnonymousRequestCarriesNoIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotUser string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get(HeaderUser)
	}))
	defer upstream.Close()

	f, err := NewForwarder(upstream.URL)
	if err != nil {
		t.Fatalf("forwarder: %v", err)
	}

	r := gin.New()
	r.NoRoute(f.Handler())

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public/logo.png", nil)
	req.Header.Set(HeaderUser, "mallory@example.com")
	r.ServeHTTP(w, req)

	if gotUser != "" {
		t.Fatalf("expected no identity header, got %q", gotUser)
	}
}

func TestForwarder_UpstreamDownIs502(t *testing.T) {
	gin.SetMode(gin.TestMode)

	f, err := NewForwarder("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("forwarder: %v", err)
	}

	r := gin.New()
	r.NoRoute(f.Handler())

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestNewForwarder_RejectsBadURL(t *testing.T) {
	if _, err := NewForwarder("://not-a-url"); err == nil {
		t.Fatalf("expected error for malformed upstream url")
	}
}
