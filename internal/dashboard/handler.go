// Package dashboard owns the authenticated management surface: the section
// panels, their tables and the create/update forms. All data access goes
// through the API client; nothing is stored locally beyond the render cycle.
package dashboard

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

// Handler wires the dashboard HTTP endpoints.
type Handler struct {
	logger    *slog.Logger
	api       *api.Client
	templates *view.Engine
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *api.Client, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		api:       client,
		templates: templates,
		sessions:  sessions,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers dashboard routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.index)

	r.Get("/users/new", h.userForm)
	r.Post("/users", h.createUser)
	r.Get("/users/{id}/edit", h.userEditForm)
	r.Post("/users/{id}", h.updateUser)
	r.Post("/users/{id}/delete", h.deleteUser)
	r.Post("/users/{id}/toggle", h.toggleUser)

	r.Get("/groups/new", h.groupForm)
	r.Post("/groups", h.createGroup)
	r.Get("/groups/{id}/edit", h.groupEditForm)
	r.Post("/groups/{id}", h.updateGroup)
	r.Post("/groups/{id}/delete", h.deleteGroup)
	r.Post("/groups/{id}/students", h.replaceGroupStudents)

	r.Get("/subjects/new", h.subjectForm)
	r.Post("/subjects", h.createSubject)
	r.Get("/subjects/{id}/edit", h.subjectEditForm)
	r.Post("/subjects/{id}", h.updateSubject)
	r.Post("/subjects/{id}/delete", h.deleteSubject)
	r.Post("/subjects/{id}/teachers", h.assignTeacher)
	r.Post("/subjects/{id}/teachers/{teacherID}/remove", h.unassignTeacher)

	r.Get("/grades/new", h.gradeForm)
	r.Post("/grades", h.createGrade)
	r.Get("/grades/{id}/edit", h.gradeEditForm)
	r.Post("/grades/{id}", h.updateGrade)
	r.Post("/grades/{id}/delete", h.deleteGrade)

	r.Get("/options/students", h.studentOptions)
	r.Get("/options/subjects", h.subjectOptions)
	r.Get("/options/teachers", h.teacherOptions)

	r.Get("/{section}", h.section)
}

// index redirects to the role's default section.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	_, role, _, ok := h.requireUser(w, r, true)
	if !ok {
		return
	}
	http.Redirect(w, r, "/dashboard/"+string(access.DefaultSection(role)), http.StatusSeeOther)
}

// requireUser resolves the authenticated user, failing closed: a missing or
// rejected credential redirects to the login page. When refresh is true the
// user is re-verified against the backend instead of the session cache.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request, refresh bool) (api.User, access.Role, string, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Token() == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return api.User{}, access.RoleGuest, "", false
	}
	token := sess.Token()

	if !refresh {
		if raw := sess.CurrentUser(); raw != "" {
			var user api.User
			if err := json.Unmarshal([]byte(raw), &user); err == nil {
				return user, access.ParseRole(user.Role), token, true
			}
		}
	}

	user, res := h.api.CurrentUser(r.Context(), token)
	if !res.Success {
		h.teardown(w, r, sess)
		return api.User{}, access.RoleGuest, "", false
	}
	if raw, err := json.Marshal(user); err == nil {
		sess.SetCurrentUser(string(raw))
	}
	return user, access.ParseRole(user.Role), token, true
}

// teardown clears the credential and sends the visitor back to login. Invoked
// for every 401, whichever call triggered it.
func (h *Handler) teardown(w http.ResponseWriter, r *http.Request, sess *shared.Session) {
	if sess != nil {
		sess.ClearCredential()
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// guard bails out on a backend 401, per the uniform teardown rule. Returns
// true when the caller should stop.
func (h *Handler) guard(w http.ResponseWriter, r *http.Request, res api.Result) bool {
	if !res.Unauthorized() {
		return false
	}
	h.teardown(w, r, shared.SessionFromContext(r.Context()))
	return true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
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

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func themeOf(sess *shared.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Theme()
}

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
