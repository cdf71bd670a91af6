// Package access holds the role, permission and section-visibility rules for
// the dashboard. Everything here is static data: the backend independently
// enforces authorization, so these tables are a UX convenience, never a trust
// boundary.
package access

import "strings"

// Role is the access tier reported by the backend for the current user.
type Role int

const (
	RoleGuest Role = iota
	RoleStudent
	RoleTeacher
	RoleManager
	RoleAdmin
)

// ParseRole maps a backend role string onto a Role. Unknown or empty values
// degrade to RoleGuest.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "MANAGER":
		return RoleManager
	case "TEACHER":
		return RoleTeacher
	case "STUDENT":
		return RoleStudent
	default:
		return RoleGuest
	}
}

// String returns the backend wire form of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleManager:
		return "MANAGER"
	case RoleTeacher:
		return "TEACHER"
	case RoleStudent:
		return "STUDENT"
	default:
		return "GUEST"
	}
}

// Label returns a human readable role name for greetings and navigation.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleManager:
		return "Manager"
	case RoleTeacher:
		return "Teacher"
	case RoleStudent:
		return "Student"
	default:
		return "Guest"
	}
}

// Icon returns the glyph shown next to the greeting.
func (r Role) Icon() string {
	switch r {
	case RoleAdmin:
		return "🛡️"
	case RoleManager:
		return "📋"
	case RoleTeacher:
		return "🎓"
	case RoleStudent:
		return "📖"
	default:
		return "👤"
	}
}

// Permissions describes which row and form actions a role may use.
type Permissions struct {
	CanCreate       bool
	CanEdit         bool
	CanDelete       bool
	CanToggleActive bool
}

var permissionTable = map[Role]Permissions{
	RoleAdmin:   {CanCreate: true, CanEdit: true, CanDelete: true, CanToggleActive: true},
	RoleManager: {CanCreate: true, CanEdit: true, CanDelete: false, CanToggleActive: true},
	RoleTeacher: {},
	RoleStudent: {},
	RoleGuest:   {},
}

// PermissionsFor returns the fixed permission set of a role.
func PermissionsFor(r Role) Permissions {
	return permissionTable[r]
}

// Section names one dashboard panel.
type Section string

const (
	SectionOverview Section = "overview"
	SectionUsers    Section = "users"
	SectionTeachers Section = "teachers"
	SectionStudents Section = "students"
	SectionGroups   Section = "groups"
	SectionSubjects Section = "subjects"
	SectionGrades   Section = "grades"
)

// sectionOrder fixes the navigation order.
var sectionOrder = []Section{
	SectionOverview,
	SectionUsers,
	SectionTeachers,
	SectionStudents,
	SectionGroups,
	SectionSubjects,
	SectionGrades,
}

var sectionVisibility = map[Section][]Role{
	SectionOverview: {RoleAdmin, RoleManager},
	SectionUsers:    {RoleAdmin},
	SectionTeachers: {RoleAdmin, RoleManager},
	SectionStudents: {RoleAdmin, RoleManager, RoleTeacher},
	SectionGroups:   {RoleAdmin, RoleManager, RoleTeacher},
	SectionSubjects: {RoleAdmin, RoleManager, RoleTeacher, RoleStudent},
	SectionGrades:   {RoleAdmin, RoleManager, RoleTeacher, RoleStudent},
}

// CanSee reports whether the role's navigation includes the section.
func CanSee(r Role, s Section) bool {
	for _, allowed := range sectionVisibility[s] {
		if allowed == r {
			return true
		}
	}
	return false
}

// VisibleSections returns the sections the role may navigate to, in
// navigation order.
func VisibleSections(r Role) []Section {
	visible := make([]Section, 0, len(sectionOrder))
	for _, s := range sectionOrder {
		if CanSee(r, s) {
			visible = append(visible, s)
		}
	}
	return visible
}

// DefaultSection returns the panel shown right after login.
func DefaultSection(r Role) Section {
	switch r {
	case RoleTeacher:
		return SectionSubjects
	case RoleStudent:
		return SectionGrades
	default:
		return SectionOverview
	}
}

// ParseSection validates a section name from the URL. The second return is
// false for unknown names, which callers treat as a no-op.
func ParseSection(s string) (Section, bool) {
	section := Section(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range sectionOrder {
		if section == known {
			return section, true
		}
	}
	return "", false
}

// Title returns the section heading.
func (s Section) Title() string {
	switch s {
	case SectionOverview:
		return "Overview"
	case SectionUsers:
		return "Users"
	case SectionTeachers:
		return "Teachers"
	case SectionStudents:
		return "Students"
	case SectionGroups:
		return "Groups"
	case SectionSubjects:
		return "Subjects"
	case SectionGrades:
		return "Grades"
	default:
		return string(s)
	}
}
