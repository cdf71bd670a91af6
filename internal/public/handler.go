// Package public serves the pages and probes that need no credential: the
// department profile and the health endpoint.
package public

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/deptboard/deptboard/internal/api"
	"github.com/deptboard/deptboard/internal/platform/httpx"
	"github.com/deptboard/deptboard/internal/shared"
	"github.com/deptboard/deptboard/internal/view"
)

// Handler wires the unauthenticated routes.
type Handler struct {
	logger    *slog.Logger
	api       *api.Client
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *api.Client, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, api: client, templates: templates, csrf: csrf}
}

// MountRoutes registers the public routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/department", h.department)
	r.Get("/healthz", h.health)
}

type teacherEntry struct {
	Name     string
	Position string
}

type departmentPage struct {
	Info     api.DepartmentInfo
	Status   api.DepartmentStatus
	Teachers []teacherEntry
	Subjects []api.Subject
}

// department renders the public profile. Each block degrades independently:
// a backend hiccup on one listing leaves the others intact.
func (h *Handler) department(w http.ResponseWriter, r *http.Request) {
	page := departmentPage{Info: api.DepartmentInfo{Name: "Department"}}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		if info, res := h.api.DepartmentInfo(ctx); res.Success {
			page.Info = info
		}
		return nil
	})
	g.Go(func() error {
		if status, res := h.api.PublicStatus(ctx); res.Success {
			page.Status = status
		}
		return nil
	})
	g.Go(func() error {
		if teachers, res := h.api.PublicTeachers(ctx); res.Success {
			for _, teacher := range teachers {
				name := ""
				if teacher.User != nil {
					name = teacher.User.FullName()
				}
				page.Teachers = append(page.Teachers, teacherEntry{Name: name, Position: teacher.Position})
			}
		}
		return nil
	})
	g.Go(func() error {
		if subjects, res := h.api.PublicSubjects(ctx); res.Success {
			page.Subjects = subjects
		}
		return nil
	})
	_ = g.Wait()

	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	data := view.TemplateData{
		Title:       page.Info.Name,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        page,
	}
	if err := h.templates.Render(w, "pages/department.html", data); err != nil {
		h.logger.Error("render department", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type healthStatus struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// health reports the gateway's own liveness plus the backend's reachability.
// The gateway stays "ok" even when the backend is down; the split lets probes
// distinguish a dead process from a dead upstream.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{Status: "ok", Backend: "ok"}
	if res := h.api.PublicHealth(r.Context()); !res.Success {
		status.Backend = "unreachable"
	}
	httpx.JSON(w, http.StatusOK, status)
}
