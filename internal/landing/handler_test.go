package landing_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/deptboard/deptboard/internal/api"
	"github.com/deptboard/deptboard/internal/landing"
	"github.com/deptboard/deptboard/internal/shared"
	"github.com/deptboard/deptboard/internal/view"
	_ "github.com/deptboard/deptboard/testing"
)

// fixture wires a landing handler against a stub backend and an in-memory
// session store, with the session middleware the real router applies.
type fixture struct {
	router   http.Handler
	sessions *shared.SessionManager
	redis    *redis.Client
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

	handler := landing.NewHandler(logger, client, templates, sessionManager, csrfManager)
	r := chi.NewRouter()
	r.Use(sessionMiddleware(t, sessionManager))
	handler.MountRoutes(r)
	return &fixture{router: r, sessions: sessionManager, redis: redisClient}
}

// commitWriter flushes the session cookie before the first byte goes out,
// mirroring the runtime middleware.
type commitWriter struct {
	http.ResponseWriter
	commit func()
	done   bool
}

func (w *commitWriter) WriteHeader(code int) {
	if !w.done {
		w.done = true
		w.commit()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	if !w.done {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func sessionMiddleware(t *testing.T, manager *shared.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := manager.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			wrapped := &commitWriter{ResponseWriter: w, commit: func() {
				if err := manager.Commit(ctx, w, req, sess); err != nil {
					t.Errorf("commit session: %v", err)
				}
			}}
			next.ServeHTTP(wrapped, req.WithContext(ctx))
			if !wrapped.done {
				wrapped.commit()
			}
		})
	}
}

// seedSession stores a session with a token and returns its cookie.
func (f *fixture) seedSession(t *testing.T, token string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := f.sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetToken(token)
	res := httptest.NewRecorder()
	if err := f.sessions.Commit(context.Background(), res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	cookies := res.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no session cookie issued")
	}
	return cookies[0]
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

func TestHomeAnonymous(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, "Sign in") {
		t.Fatalf("expected sign-in link on anonymous landing")
	}
	if strings.Contains(body, "Log out") {
		t.Fatalf("logout affordance must be hidden for anonymous visitors")
	}
}

func TestHomeStaleCredentialCleared(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/current-user", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
	f := newFixture(t, mux)
	cookie := f.seedSession(t, "stale-token")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected anonymous landing, got %d", res.Code)
	}
	if strings.Contains(res.Body.String(), "Log out") {
		t.Fatalf("logout affordance must disappear once the credential fails verification")
	}
	if got := f.sessionToken(t, cookie); got != "" {
		t.Fatalf("expected credential cleared, still have %q", got)
	}
}

func TestHomeVerifiedCredentialRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/current-user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"firstName":"Ada","lastName":"Lovelace","role":"ADMIN","isActive":true}`))
	})
	f := newFixture(t, mux)
	cookie := f.seedSession(t, "good-token")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected /dashboard, got %q", loc)
	}
}

func TestLoginStoresTokenFromMessageField(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"issued-token"}`))
	})
	mux.HandleFunc("/api/auth/current-user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer issued-token" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"firstName":"Grace","lastName":"Hopper","role":"TEACHER","isActive":true}`))
	})
	f := newFixture(t, mux)

	form := url.Values{}
	form.Set("username", "grace")
	form.Set("password", "pw")
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after login, got %d: %s", res.Code, res.Body.String())
	}
	cookies := res.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie after login")
	}
	if got := f.sessionToken(t, cookies[0]); got != "issued-token" {
		t.Fatalf("expected token persisted, got %q", got)
	}
}

func TestLoginRejectedByPayloadFlag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"Bad credentials"}`))
	})
	f := newFixture(t, mux)

	form := url.Values{}
	form.Set("username", "grace")
	form.Set("password", "wrong")
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Bad credentials") {
		t.Fatalf("expected backend message surfaced in form")
	}
}

func TestLoginMissingFields(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	form := url.Values{}
	form.Set("username", "")
	form.Set("password", "")
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty form, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "This field is required") {
		t.Fatalf("expected field errors rendered")
	}
}

func (f *fixture) sessionTheme(t *testing.T, cookie *http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := f.sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess.Theme()
}

func TestThemeStoresSubmittedChoice(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	cookie := f.seedSession(t, "")

	// A visitor already rendered dark by the OS preference asks for light;
	// the stored choice must follow the submitted value, not a blind toggle.
	form := url.Values{}
	form.Set("theme", "light")
	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if got := f.sessionTheme(t, cookie); got != "light" {
		t.Fatalf("expected stored theme light, got %q", got)
	}
}

func TestThemeTogglesWithoutSubmittedChoice(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	cookie := f.seedSession(t, "")

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if got := f.sessionTheme(t, cookie); got != "dark" {
		t.Fatalf("expected toggle fallback to dark, got %q", got)
	}
}
