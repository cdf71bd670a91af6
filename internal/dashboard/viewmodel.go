package dashboard

import (
	"fmt"
	"strconv"

	"github.com/deptboard/deptboard/internal/access"
	"github.com/deptboard/deptboard/internal/api"
)

// The view models keep the role and permission logic independent of markup:
// tables are computed here and the templates only print them.

// Column heads one table column.
type Column struct {
	Label string
}

// Row is one rendered table row. Action URLs are empty when the action is not
// available to the current role.
type Row struct {
	Cells       []string
	EditURL     string
	DeleteURL   string
	ToggleURL   string
	ToggleLabel string
}

// Table is the renderable form of one section's data.
type Table struct {
	Columns     []Column
	Rows        []Row
	Empty       string
	ShowActions bool
	CSRFToken   string
}

// Colspan spans the fallback row across all columns.
func (t Table) Colspan() int {
	if t.ShowActions {
		return len(t.Columns) + 1
	}
	return len(t.Columns)
}

// UsersTable renders the user accounts listing.
func UsersTable(users []api.User, perms access.Permissions) Table {
	t := Table{
		Columns:     []Column{{"ID"}, {"Name"}, {"Email"}, {"Role"}, {"Status"}, {"Created"}},
		Empty:       "No users found",
		ShowActions: perms.CanEdit || perms.CanDelete || perms.CanToggleActive,
	}
	for _, u := range users {
		row := Row{Cells: []string{
			strconv.FormatInt(u.ID, 10),
			u.FullName(),
			u.Email,
			access.ParseRole(u.Role).Label(),
			activeLabel(u.IsActive),
			shortDate(u.CreatedAt),
		}}
		base := fmt.Sprintf("/dashboard/users/%d", u.ID)
		if perms.CanEdit {
			row.EditURL = base + "/edit"
		}
		if perms.CanDelete {
			row.DeleteURL = base + "/delete"
		}
		if perms.CanToggleActive {
			row.ToggleURL = base + "/toggle"
			row.ToggleLabel = toggleLabel(u.IsActive)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TeachersTable renders the read-mostly teachers listing.
func TeachersTable(teachers []api.Teacher) Table {
	t := Table{
		Columns: []Column{{"ID"}, {"Name"}, {"Position"}, {"Subjects"}},
		Empty:   "No teachers found",
	}
	for _, teacher := range teachers {
		name := ""
		if teacher.User != nil {
			name = teacher.User.FullName()
		}
		t.Rows = append(t.Rows, Row{Cells: []string{
			strconv.FormatInt(teacher.ID, 10),
			name,
			teacher.Position,
			strconv.Itoa(len(teacher.Subjects)),
		}})
	}
	return t
}

// StudentsTable renders the read-mostly students listing.
func StudentsTable(students []api.Student) Table {
	t := Table{
		Columns: []Column{{"ID"}, {"Name"}, {"Group"}, {"Course"}, {"Average"}},
		Empty:   "No students found",
	}
	for _, s := range students {
		name := ""
		if s.User != nil {
			name = s.User.FullName()
		}
		group := ""
		if s.Group != nil {
			group = s.Group.GroupName
		}
		avg := "—"
		if s.AverageGrade != nil {
			avg = strconv.FormatFloat(*s.AverageGrade, 'f', 2, 64)
		}
		t.Rows = append(t.Rows, Row{Cells: []string{
			strconv.FormatInt(s.ID, 10),
			name,
			group,
			strconv.Itoa(s.Course),
			avg,
		}})
	}
	return t
}

// GroupsTable renders the study groups listing.
func GroupsTable(groups []api.Group, perms access.Permissions) Table {
	t := Table{
		Columns:     []Column{{"ID"}, {"Name"}, {"Code"}, {"Year"}, {"Form"}, {"Students"}, {"Enrolled"}},
		Empty:       "No groups found",
		ShowActions: perms.CanEdit || perms.CanDelete,
	}
	for _, g := range groups {
		row := Row{Cells: []string{
			strconv.FormatInt(g.ID, 10),
			g.GroupName,
			g.GroupCode,
			strconv.Itoa(g.CourseYear),
			g.StudyForm,
			strconv.Itoa(g.StudentCount),
			strconv.Itoa(g.EnrollmentYear),
		}}
		base := fmt.Sprintf("/dashboard/groups/%d", g.ID)
		if perms.CanEdit {
			row.EditURL = base + "/edit"
		}
		if perms.CanDelete {
			row.DeleteURL = base + "/delete"
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SubjectsTable renders the subjects listing.
func SubjectsTable(subjects []api.Subject, perms access.Permissions) Table {
	t := Table{
		Columns:     []Column{{"ID"}, {"Name"}, {"Code"}, {"Credits"}, {"Semester"}, {"Assessment"}},
		Empty:       "No subjects found",
		ShowActions: perms.CanEdit || perms.CanDelete,
	}
	for _, s := range subjects {
		row := Row{Cells: []string{
			strconv.FormatInt(s.ID, 10),
			s.SubjectName,
			s.SubjectCode,
			strconv.Itoa(s.Credits),
			strconv.Itoa(s.Semester),
			s.AssessmentType,
		}}
		base := fmt.Sprintf("/dashboard/subjects/%d", s.ID)
		if perms.CanEdit {
			row.EditURL = base + "/edit"
		}
		if perms.CanDelete {
			row.DeleteURL = base + "/delete"
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// GradesTable renders the grades listing. Students never get row actions,
// whatever the permission table says.
func GradesTable(grades []api.Grade, role access.Role, perms access.Permissions) Table {
	showActions := (perms.CanEdit || perms.CanDelete) && role != access.RoleStudent
	t := Table{
		Columns:     []Column{{"Student"}, {"Subject"}, {"Type"}, {"Value"}, {"Date"}, {"Comments"}},
		Empty:       "No grades found",
		ShowActions: showActions,
	}
	for _, g := range grades {
		student := g.StudentName
		if student == "" {
			student = "#" + strconv.FormatInt(g.StudentID, 10)
		}
		subject := g.SubjectName
		if subject == "" {
			subject = "#" + strconv.FormatInt(g.SubjectID, 10)
		}
		row := Row{Cells: []string{
			student,
			subject,
			g.GradeType,
			strconv.FormatFloat(g.GradeValue, 'f', -1, 64),
			shortDate(g.GradeDate),
			g.Comments,
		}}
		if showActions {
			base := fmt.Sprintf("/dashboard/grades/%d", g.ID)
			if perms.CanEdit {
				row.EditURL = base + "/edit"
			}
			if perms.CanDelete {
				row.DeleteURL = base + "/delete"
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func toggleLabel(active bool) string {
	if active {
		return "Deactivate"
	}
	return "Activate"
}

func shortDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
