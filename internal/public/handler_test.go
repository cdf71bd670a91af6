package public_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/deptboard/deptboard/internal/api"
	"github.com/deptboard/deptboard/internal/public"
	"github.com/deptboard/deptboard/internal/shared"
	"github.com/deptboard/deptboard/internal/view"
	_ "github.com/deptboard/deptboard/testing"
)

func newRouter(t *testing.T, backend http.Handler) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(server.URL, logger)
	handler := public.NewHandler(logger, client, templates, shared.NewCSRFManager("csrfsecret"))
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestHealthReportsBackendOutage(t *testing.T) {
	r := newRouter(t, http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("gateway health must stay 200, got %d", res.Code)
	}
	var payload struct {
		Status  string `json:"status"`
		Backend string `json:"backend"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("expected gateway ok, got %q", payload.Status)
	}
	if payload.Backend != "unreachable" {
		t.Fatalf("expected backend outage reported, got %q", payload.Backend)
	}
}

func TestHealthBothHealthy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/public/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"UP"}`))
	})
	r := newRouter(t, mux)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	if !strings.Contains(res.Body.String(), `"backend":"ok"`) {
		t.Fatalf("expected healthy backend, got %s", res.Body.String())
	}
}

func TestDepartmentPageDegradesPerBlock(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/public/department-info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Computer Science","description":"Systems and software."}`))
	})
	mux.HandleFunc("/api/public/teachers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"position":"PROFESSOR","user":{"id":2,"firstName":"Edsger","lastName":"Dijkstra"}}]`))
	})
	// status and subjects endpoints are down
	r := newRouter(t, mux)

	req := httptest.NewRequest(http.MethodGet, "/department", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, "Computer Science") {
		t.Fatalf("expected department name rendered")
	}
	if !strings.Contains(body, "Edsger Dijkstra") {
		t.Fatalf("expected faculty listing rendered")
	}
}
