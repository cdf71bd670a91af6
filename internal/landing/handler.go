// Package landing owns the unauthenticated surface: the root page, the login
// flow and the theme preference.
package landing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/deptboard/deptboard/internal/access"
	"github.com/deptboard/deptboard/internal/api"
	"github.com/deptboard/deptboard/internal/shared"
	"github.com/deptboard/deptboard/internal/view"
)

// Handler wires HTTP endpoints for the landing and authentication flows.
type Handler struct {
	logger         *slog.Logger
	api            *api.Client
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *api.Client, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		api:            client,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers landing routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/theme", h.handleTheme)
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

// home renders the landing page. A stored credential is verified against the
// current-user endpoint first: verified visitors go straight to the dashboard,
// anything else degrades to the anonymous page with the credential discarded.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil && sess.Token() != "" {
		user, res := h.api.CurrentUser(r.Context(), sess.Token())
		if res.Success {
			cacheUser(sess, user)
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		sess.ClearCredential()
	}
	h.render(w, r, "pages/landing.html", "Department Board", nil, http.StatusOK)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/login.html", "Sign in", loginPageData{Form: loginForm{}}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())

	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	errors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = "This field is required"
		}
	}

	if len(errors) == 0 {
		token, accepted, res := h.api.Login(r.Context(), form.Username, form.Password)
		if !res.Success || !accepted {
			errors["general"] = res.Message("Invalid username or password")
		} else {
			user, userRes := h.api.CurrentUser(r.Context(), token)
			if !userRes.Success {
				errors["general"] = userRes.Message("Could not verify the signed in user")
			} else if sess != nil {
				sess.SetToken(token)
				cacheUser(sess, user)
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back"})
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
		}
	}

	h.render(w, r, "pages/login.html", "Sign in", loginPageData{Form: form, Errors: errors}, http.StatusBadRequest)
}

// handleLogout tells the backend best-effort, then unconditionally drops the
// local session and returns to the login page.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if token := sess.Token(); token != "" {
			if res := h.api.Logout(r.Context(), token); !res.Success && h.logger != nil {
				h.logger.Warn("backend logout failed", slog.String("error", res.Error))
			}
		}
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleTheme records an explicit theme choice. Once set, the OS preference is
// no longer followed. The form submits the theme it wants next; before any
// choice is stored the effective theme is client-side knowledge, so the server
// cannot toggle it blind.
func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		switch r.PostFormValue("theme") {
		case "light":
			sess.SetTheme("light")
		case "dark":
			sess.SetTheme("dark")
		default:
			if sess.Theme() == "dark" {
				sess.SetTheme("light")
			} else {
				sess.SetTheme("dark")
			}
		}
	}
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Theme:       themeOf(sess),
		Greeting:    greetingOf(sess),
		Data:        data,
	}
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render "+page, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func themeOf(sess *shared.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Theme()
}

// greetingOf builds the personalized header from the cached verified user.
// Anonymous sessions get no greeting and therefore no logout affordance.
func greetingOf(sess *shared.Session) *view.Greeting {
	if sess == nil || sess.Token() == "" {
		return nil
	}
	raw := sess.CurrentUser()
	if raw == "" {
		return nil
	}
	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	role := access.ParseRole(user.Role)
	return &view.Greeting{
		Name:      user.FullName(),
		RoleLabel: role.Label(),
		RoleIcon:  role.Icon(),
	}
}

func cacheUser(sess *shared.Session, user api.User) {
	if sess == nil {
		return
	}
	if raw, err := json.Marshal(user); err == nil {
		sess.SetCurrentUser(string(raw))
	}
}
