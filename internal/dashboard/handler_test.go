package dashboard_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/deptboard/deptboard/internal/api"
	"github.com/deptboard/deptboard/internal/dashboard"
	"github.com/deptboard/deptboard/internal/shared"
	"github.com/deptboard/deptboard/internal/view"
	_ "github.com/deptboard/deptboard/internal/testing/guard"
)

// recordingBackend remembers which backend paths were hit.
type recordingBackend struct {
	mux   *http.ServeMux
	mu    sync.Mutex
	paths []string
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{mux: http.NewServeMux()}
}

func (b *recordingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.mu.Unlock()
	b.mux.ServeHTTP(w, r)
}

func (b *recordingBackend) sawPath(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.paths {
		if p == path {
			return true
		}
	}
	return false
}

type fixture struct {
	router   http.Handler
	sessions *shared.SessionManager
}

func newFixture(t *testing.T, backend http.Handler) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(server.URL, logger)

	handler := dashboard.NewHandler(logger, client, templates, sessionManager, csrfManager)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessionManager.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
			if err := sessionManager.Commit(ctx, w, req, sess); err != nil {
				t.Fatalf("commit session: %v", err)
			}
		})
	})
	r.Route("/dashboard", handler.MountRoutes)
	return &fixture{router: r, sessions: sessionManager}
}

// seedUser stores an authenticated session with a cached user document and
// returns the cookie to present.
func (f *fixture) seedUser(t *testing.T, token string, user api.User) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := f.sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetToken(token)
	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	sess.SetCurrentUser(string(raw))
	res := httptest.NewRecorder()
	if err := f.sessions.Commit(context.Background(), res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res.Result().Cookies()[0]
}

func (f *fixture) sessionToken(t *testing.T, cookie *http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := f.sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess.Token()
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func adminUser() api.User {
	return api.User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Role: "ADMIN", IsActive: true}
}

func teacherUser() api.User {
	return api.User{ID: 5, FirstName: "Grace", LastName: "Hopper", Role: "TEACHER", IsActive: true}
}

func TestNoCredentialRedirectsToLogin(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/users", nil)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login, got %q", loc)
	}
}

func TestBackend401TearsDownSession(t *testing.T) {
	backend := newRecordingBackend()
	backend.mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
	f := newFixture(t, backend)
	cookie := f.seedUser(t, "revoked-token", adminUser())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/users", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login, got %q", loc)
	}
	if got := f.sessionToken(t, cookie); got != "" {
		t.Fatalf("expected credential cleared after 401, still have %q", got)
	}
}

func TestTeacherSubjectsUseScopedEndpoint(t *testing.T) {
	backend := newRecordingBackend()
	backend.mux.HandleFunc("/api/teachers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"id":12,"position":"PROFESSOR","user":{"id":9}},{"id":33,"position":"LECTURER","user":{"id":5}}]`)
	})
	backend.mux.HandleFunc("/api/teachers/33", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":33,"position":"LECTURER","subjects":[{"id":2,"subjectName":"Databases","subjectCode":"DB-101","credits":5,"semester":3,"assessmentType":"EXAM"}]}`)
	})
	f := newFixture(t, backend)
	cookie := f.seedUser(t, "teacher-token", teacherUser())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/subjects", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), "Databases") {
		t.Fatalf("expected scoped subject in listing")
	}
	if strings.Contains(res.Body.String(), "load-error") {
		t.Fatalf("teacher resolution must not fail against the documented endpoints: %s", res.Body.String())
	}
	if backend.sawPath("/api/subjects") {
		t.Fatalf("teacher listing must never hit the general subjects endpoint")
	}
}

func TestTeacherWithoutRecordSeesLoadError(t *testing.T) {
	backend := newRecordingBackend()
	backend.mux.HandleFunc("/api/teachers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"id":12,"position":"PROFESSOR","user":{"id":9}}]`)
	})
	f := newFixture(t, backend)
	cookie := f.seedUser(t, "teacher-token", teacherUser())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/subjects", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with inline fallback, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "load-error") {
		t.Fatalf("expected inline load error when no teacher record matches the account")
	}
}

func TestTeacherCannotOpenUserForm(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	cookie := f.seedUser(t, "teacher-token", teacherUser())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/users/new", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}

func TestCreateUserBackendFailureKeepsForm(t *testing.T) {
	backend := newRecordingBackend()
	backend.mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"Email already registered"}`))
	})
	f := newFixture(t, backend)
	cookie := f.seedUser(t, "admin-token", adminUser())

	form := url.Values{}
	form.Set("first_name", "New")
	form.Set("last_name", "User")
	form.Set("email", "new@dept.local")
	form.Set("password", "secret")
	form.Set("role", "STUDENT")
	form.Set("is_active", "1")
	req := httptest.NewRequest(http.MethodPost, "/dashboard/users", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, "Email already registered") {
		t.Fatalf("expected backend message surfaced in form")
	}
	if !strings.Contains(body, `value="new@dept.local"`) {
		t.Fatalf("expected submitted values preserved in re-rendered form")
	}
}

func TestStudentGradesAreReadOnly(t *testing.T) {
	backend := newRecordingBackend()
	backend.mux.HandleFunc("/api/grades/my-grades", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"id":1,"studentId":9,"subjectId":2,"subjectName":"Algebra","teacherId":3,"gradeType":"FINAL","gradeValue":88,"gradeDate":"2026-06-01"}]`)
	})
	f := newFixture(t, backend)
	student := api.User{ID: 9, FirstName: "Alan", LastName: "Turing", Role: "STUDENT", IsActive: true}
	cookie := f.seedUser(t, "student-token", student)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/grades", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	body := res.Body.String()
	if !strings.Contains(body, "Algebra") {
		t.Fatalf("expected own grades listed")
	}
	if strings.Contains(body, "/dashboard/grades/1/edit") || strings.Contains(body, "/dashboard/grades/1/delete") {
		t.Fatalf("students must never see grade row actions")
	}
	if !backend.sawPath("/api/grades/my-grades") {
		t.Fatalf("student load must use the my-grades endpoint")
	}
	if backend.sawPath("/api/grades") {
		t.Fatalf("student load must not hit the general grades listing")
	}
}

func TestUnknownSectionRedirectsToDefault(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	cookie := f.seedUser(t, "admin-token", adminUser())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/payroll", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect for unknown section, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/dashboard/overview" {
		t.Fatalf("expected default section, got %q", loc)
	}
}

func TestDeleteFormsCarryNoInlineHandlers(t *testing.T) {
	backend := newRecordingBackend()
	backend.mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"id":2,"firstName":"Alan","lastName":"Turing","email":"alan@dept.local","role":"TEACHER","isActive":true}]`)
	})
	f := newFixture(t, backend)
	cookie := f.seedUser(t, "admin-token", adminUser())

	req := httptest.NewRequest(http.MethodGet, "/dashboard/users", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	// Inline handlers are dead under the default-src 'self' CSP; the
	// confirmation must hang off the data attribute picked up by script.
	if strings.Contains(body, "onsubmit=") {
		t.Fatalf("delete form must not use an inline submit handler")
	}
	if !strings.Contains(body, `data-confirm="Delete this record?"`) {
		t.Fatalf("expected confirm data attribute on the delete form")
	}
}
