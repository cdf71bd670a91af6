package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deptboard/deptboard/internal/access"
	"github.com/deptboard/deptboard/internal/api"
)

func TestUsersTableActionsFollowPermissions(t *testing.T) {
	users := []api.User{{ID: 4, FirstName: "Ada", LastName: "Lovelace", Email: "ada@dept.local", Role: "TEACHER", IsActive: true}}

	admin := UsersTable(users, access.PermissionsFor(access.RoleAdmin))
	assert.True(t, admin.ShowActions)
	assert.Equal(t, "/dashboard/users/4/edit", admin.Rows[0].EditURL)
	assert.Equal(t, "/dashboard/users/4/delete", admin.Rows[0].DeleteURL)
	assert.Equal(t, "/dashboard/users/4/toggle", admin.Rows[0].ToggleURL)
	assert.Equal(t, "Deactivate", admin.Rows[0].ToggleLabel)

	manager := UsersTable(users, access.PermissionsFor(access.RoleManager))
	assert.True(t, manager.ShowActions)
	assert.NotEmpty(t, manager.Rows[0].EditURL)
	assert.Empty(t, manager.Rows[0].DeleteURL, "managers cannot delete")

	teacher := UsersTable(users, access.PermissionsFor(access.RoleTeacher))
	assert.False(t, teacher.ShowActions)
	assert.Empty(t, teacher.Rows[0].EditURL)
}

func TestGradesTableStudentNeverGetsActions(t *testing.T) {
	grades := []api.Grade{{ID: 9, StudentName: "Ada Lovelace", SubjectName: "Algebra", GradeType: "FINAL", GradeValue: 91}}

	// Even with every permission granted, the student view stays read-only.
	allPerms := access.Permissions{CanCreate: true, CanEdit: true, CanDelete: true, CanToggleActive: true}
	table := GradesTable(grades, access.RoleStudent, allPerms)
	assert.False(t, table.ShowActions)
	assert.Empty(t, table.Rows[0].EditURL)
	assert.Empty(t, table.Rows[0].DeleteURL)

	adminTable := GradesTable(grades, access.RoleAdmin, access.PermissionsFor(access.RoleAdmin))
	assert.True(t, adminTable.ShowActions)
	assert.Equal(t, "/dashboard/grades/9/edit", adminTable.Rows[0].EditURL)
}

func TestGradesTableFallsBackToIDs(t *testing.T) {
	grades := []api.Grade{{ID: 1, StudentID: 12, SubjectID: 7, GradeType: "CURRENT", GradeValue: 75.5}}
	table := GradesTable(grades, access.RoleAdmin, access.PermissionsFor(access.RoleAdmin))
	assert.Equal(t, "#12", table.Rows[0].Cells[0])
	assert.Equal(t, "#7", table.Rows[0].Cells[1])
	assert.Equal(t, "75.5", table.Rows[0].Cells[3])
}

func TestEmptyTablesKeepFallbackText(t *testing.T) {
	tables := []Table{
		UsersTable(nil, access.PermissionsFor(access.RoleAdmin)),
		TeachersTable(nil),
		StudentsTable(nil),
		GroupsTable(nil, access.PermissionsFor(access.RoleManager)),
		SubjectsTable(nil, access.PermissionsFor(access.RoleTeacher)),
		GradesTable(nil, access.RoleStudent, access.PermissionsFor(access.RoleStudent)),
	}
	for _, table := range tables {
		assert.Empty(t, table.Rows)
		assert.NotEmpty(t, table.Empty, "empty listing needs a textual fallback")
	}
}

func TestColspanCoversActionColumn(t *testing.T) {
	table := UsersTable(nil, access.PermissionsFor(access.RoleAdmin))
	assert.Equal(t, len(table.Columns)+1, table.Colspan())

	readOnly := TeachersTable(nil)
	assert.Equal(t, len(readOnly.Columns), readOnly.Colspan())
}
