package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/deptboard/deptboard/internal/access"
	"github.com/deptboard/deptboard/internal/api"
	"github.com/deptboard/deptboard/internal/shared"
)

type sectionLink struct {
	Name  string
	Title string
}

type sectionPage struct {
	Sections       []sectionLink
	CurrentSection string
	Heading        string
	CreateURL      string
	SearchURL      string
	Query          string
	Table          Table
	LoadError      string
}

type overviewPage struct {
	Sections       []sectionLink
	CurrentSection string
	Status         api.DepartmentStatus
	Info           *api.DepartmentInfo
	LoadError      string
}

func navLinks(role access.Role) []sectionLink {
	sections := access.VisibleSections(role)
	links := make([]sectionLink, 0, len(sections))
	for _, s := range sections {
		links = append(links, sectionLink{Name: string(s), Title: s.Title()})
	}
	return links
}

// section activates one dashboard panel. Unknown or invisible section names
// are a no-op: the visitor lands back on the role's default panel.
func (h *Handler) section(w http.ResponseWriter, r *http.Request) {
	user, role, token, ok := h.requireUser(w, r, false)
	if !ok {
		return
	}

	sec, known := access.ParseSection(chi.URLParam(r, "section"))
	if !known || !access.CanSee(role, sec) {
		http.Redirect(w, r, "/dashboard/"+string(access.DefaultSection(role)), http.StatusSeeOther)
		return
	}

	if sec == access.SectionOverview {
		h.renderOverview(w, r, role)
		return
	}

	page := sectionPage{
		Sections:       navLinks(role),
		CurrentSection: string(sec),
		Heading:        sec.Title(),
	}
	perms := access.PermissionsFor(role)

	switch sec {
	case access.SectionUsers:
		page.SearchURL = "/dashboard/users"
		page.Query = r.URL.Query().Get("q")
		if perms.CanCreate {
			page.CreateURL = "/dashboard/users/new"
		}
		var users []api.User
		var res api.Result
		if page.Query != "" {
			users, res = h.api.SearchUsers(r.Context(), token, page.Query)
		} else {
			users, res = h.api.ListUsers(r.Context(), token)
		}
		if h.guard(w, r, res) {
			return
		}
		if !res.Success {
			page.LoadError = res.Message("Failed to load users")
		} else {
			page.Table = UsersTable(users, perms)
		}

	case access.SectionTeachers:
		teachers, res := h.api.ListTeachers(r.Context(), token)
		if h.guard(w, r, res) {
			return
		}
		if !res.Success {
			page.LoadError = res.Message("Failed to load teachers")
		} else {
			page.Table = TeachersTable(teachers)
		}

	case access.SectionStudents:
		var students []api.Student
		var res api.Result
		if role == access.RoleTeacher {
			teacherID, tres := h.actingTeacherID(r.Context(), token, user)
			if h.guard(w, r, tres) {
				return
			}
			if !tres.Success {
				page.LoadError = tres.Message("Failed to resolve teacher profile")
				break
			}
			students, res = h.api.StudentsByTeacher(r.Context(), token, teacherID)
		} else {
			students, res = h.api.ListStudents(r.Context(), token)
		}
		if h.guard(w, r, res) {
			return
		}
		if !res.Success {
			page.LoadError = res.Message("Failed to load students")
		} else {
			page.Table = StudentsTable(students)
		}

	case access.SectionGroups:
		if perms.CanCreate {
			page.CreateURL = "/dashboard/groups/new"
		}
		groups, res := h.api.ListGroups(r.Context(), token)
		if h.guard(w, r, res) {
			return
		}
		if !res.Success {
			page.LoadError = res.Message("Failed to load groups")
		} else {
			page.Table = GroupsTable(groups, perms)
		}

	case access.SectionSubjects:
		if perms.CanCreate {
			page.CreateURL = "/dashboard/subjects/new"
		}
		var subjects []api.Subject
		var res api.Result
		if role == access.RoleTeacher {
			teacherID, tres := h.actingTeacherID(r.Context(), token, user)
			if h.guard(w, r, tres) {
				return
			}
			if !tres.Success {
				page.LoadError = tres.Message("Failed to resolve teacher profile")
				break
			}
			subjects, res = h.api.SubjectsByTeacher(r.Context(), token, teacherID)
		} else {
			subjects, res = h.api.ListSubjects(r.Context(), token)
		}
		if h.guard(w, r, res) {
			return
		}
		if !res.Success {
			page.LoadError = res.Message("Failed to load subjects")
		} else {
			page.Table = SubjectsTable(subjects, perms)
		}

	case access.SectionGrades:
		if perms.CanCreate {
			page.CreateURL = "/dashboard/grades/new"
		}
		var grades []api.Grade
		var res api.Result
		switch role {
		case access.RoleStudent:
			grades, res = h.api.MyGrades(r.Context(), token)
		case access.RoleTeacher:
			teacherID, tres := h.actingTeacherID(r.Context(), token, user)
			if h.guard(w, r, tres) {
				return
			}
			if !tres.Success {
				page.LoadError = tres.Message("Failed to resolve teacher profile")
				break
			}
			grades, res = h.api.GradesByTeacher(r.Context(), token, teacherID)
		default:
			grades, res = h.api.ListGrades(r.Context(), token)
		}
		if h.guard(w, r, res) {
			return
		}
		if page.LoadError == "" {
			if !res.Success {
				page.LoadError = res.Message("Failed to load grades")
			} else {
				page.Table = GradesTable(grades, role, perms)
			}
		}
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if token, err := h.csrf.EnsureToken(r.Context(), sess); err == nil {
			page.Table.CSRFToken = token
		}
	}
	h.render(w, r, "pages/section.html", page.Heading, page, http.StatusOK)
}

// renderOverview fans out the public headline reads concurrently; either one
// failing degrades to placeholder text rather than failing the page.
func (h *Handler) renderOverview(w http.ResponseWriter, r *http.Request, role access.Role) {
	page := overviewPage{
		Sections:       navLinks(role),
		CurrentSection: string(access.SectionOverview),
	}

	var (
		status    api.DepartmentStatus
		info      api.DepartmentInfo
		statusOK  bool
		infoOK    bool
		statusMsg string
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s, res := h.api.PublicStatus(ctx)
		if res.Success {
			status, statusOK = s, true
		} else {
			statusMsg = res.Message("Department status unavailable")
		}
		return nil
	})
	g.Go(func() error {
		i, res := h.api.DepartmentInfo(ctx)
		if res.Success {
			info, infoOK = i, true
		}
		return nil
	})
	_ = g.Wait()

	if statusOK {
		page.Status = status
	} else {
		page.LoadError = statusMsg
	}
	if infoOK {
		page.Info = &info
	}

	h.render(w, r, "pages/overview.html", "Overview", page, http.StatusOK)
}

// actingTeacherID resolves the teacher record behind the session user by
// matching the account id against the teacher listing. Grade and subject
// scoping key on the teacher id, not the account id.
func (h *Handler) actingTeacherID(ctx context.Context, token string, user api.User) (int64, api.Result) {
	teachers, res := h.api.ListTeachers(ctx, token)
	if !res.Success {
		return 0, res
	}
	for _, teacher := range teachers {
		if teacher.UserID == user.ID || (teacher.User != nil && teacher.User.ID == user.ID) {
			return teacher.ID, res
		}
	}
	return 0, api.Result{Status: http.StatusNotFound, Error: "no teacher record for the signed-in account"}
}
