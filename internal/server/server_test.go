package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skyvault-labs/s5vector/internal/api"
	"github.com/skyvault-labs/s5vector/internal/cas"
	"github.com/skyvault-labs/s5vector/internal/events"
	"github.com/skyvault-labs/s5vector/internal/registry"
	"github.com/skyvault-labs/s5vector/internal/search"
	"github.com/skyvault-labs/s5vector/internal/store"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	st := store.New(cas.NewMemory(), registry.NewMemory())
	ix := search.NewIndex()
	st.SetIndexer(ix)
	hub := events.NewHub()
	st.SetHub(hub)

	return New(cfg, api.Deps{
		Store:       st,
		Index:       ix,
		Hub:         hub,
		SearchLimit: 10,
		Oversample:  4,
	})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAPIRoutesMounted(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0})

	req := httptest.NewRequest(http.MethodGet, "/api/databases", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestCORSAllowAll(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest(http.MethodOptions, "/api/databases", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" && got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the origin allowed", got)
	}
}
