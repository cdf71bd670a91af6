package dashboard

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/deptboard/deptboard/internal/access"
	"github.com/deptboard/deptboard/internal/api"
)

// Dropdown option lists mirror the backend's enum values.
var (
	roleOptions       = []string{"ADMIN", "MANAGER", "TEACHER", "STUDENT"}
	studyFormOptions  = []string{"FULL_TIME", "PART_TIME", "EVENING", "DISTANCE"}
	assessmentOptions = []string{"EXAM", "CREDIT", "DIFFERENTIATED_CREDIT", "COURSEWORK"}
)

type optionItem struct {
	ID   int64
	Name string
}

// requirePerm blocks the request when the role lacks the permission. The
// backend enforces authorization independently; this is the server-side twin
// of hiding the button.
func (h *Handler) requirePerm(w http.ResponseWriter, allowed bool) bool {
	if allowed {
		return true
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	return false
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func (h *Handler) validate(form any) map[string]string {
	errors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = "Invalid value"
		}
	}
	return errors
}

// --- users ---

type userForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string
	Role      string `validate:"required"`
	IsActive  bool
}

type userFormPage struct {
	Heading string
	Action  string
	IsNew   bool
	Form    userForm
	Errors  map[string]string
	Roles   []string
}

func parseUserForm(r *http.Request) userForm {
	return userForm{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		Role:      r.PostFormValue("role"),
		IsActive:  r.PostFormValue("is_active") == "1",
	}
}

func (f userForm) input() api.UserInput {
	return api.UserInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
		Role:      f.Role,
		IsActive:  f.IsActive,
	}
}

func (h *Handler) userForm(w http.ResponseWriter, r *http.Request) {
	_, role, _, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	page := userFormPage{Heading: "Add user", Action: "/dashboard/users", IsNew: true, Form: userForm{IsActive: true}, Errors: map[string]string{}, Roles: roleOptions}
	h.render(w, r, "pages/form_user.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseUserForm(r)
	errors := h.validate(form)
	if form.Password == "" {
		errors["Password"] = "Invalid value"
	}
	page := userFormPage{Heading: "Add user", Action: "/dashboard/users", IsNew: true, Form: form, Errors: errors, Roles: roleOptions}
	if len(errors) > 0 {
		h.render(w, r, "pages/form_user.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.CreateUser(r.Context(), token, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save user")
		h.render(w, r, "pages/form_user.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/users", "success", "User created")
}

func (h *Handler) userEditForm(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, res := h.api.GetUser(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		http.NotFound(w, r)
		return
	}
	form := userForm{FirstName: user.FirstName, LastName: user.LastName, Email: user.Email, Role: user.Role, IsActive: user.IsActive}
	page := userFormPage{Heading: "Edit user", Action: fmt.Sprintf("/dashboard/users/%d", id), Form: form, Errors: map[string]string{}, Roles: roleOptions}
	h.render(w, r, "pages/form_user.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseUserForm(r)
	errors := h.validate(form)
	page := userFormPage{Heading: "Edit user", Action: fmt.Sprintf("/dashboard/users/%d", id), Form: form, Errors: errors, Roles: roleOptions}
	if len(errors) > 0 {
		h.render(w, r, "pages/form_user.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.UpdateUser(r.Context(), token, id, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save user")
		h.render(w, r, "pages/form_user.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/users", "success", "User updated")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanDelete) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	res := h.api.DeleteUser(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		h.redirectWithFlash(w, r, "/dashboard/users", "error", res.Message("Failed to delete user"))
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/users", "success", "User deleted")
}

func (h *Handler) toggleUser(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanToggleActive) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, res := h.api.GetUser(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if res.Success {
		res = h.api.SetUserActive(r.Context(), token, id, !user.IsActive)
		if h.guard(w, r, res) {
			return
		}
	}
	if !res.Success {
		h.redirectWithFlash(w, r, "/dashboard/users", "error", res.Message("Failed to change status"))
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/users", "success", "Status changed")
}

// --- groups ---

type groupForm struct {
	GroupName      string `validate:"required"`
	GroupCode      string `validate:"required"`
	CourseYear     int    `validate:"min=1,max=6"`
	StudyForm      string `validate:"required"`
	EnrollmentYear int    `validate:"min=2000"`
}

type groupMemberOption struct {
	ID       int64
	Name     string
	Selected bool
}

type groupFormPage struct {
	Heading        string
	Action         string
	StudentsAction string
	IsNew          bool
	Form           groupForm
	Errors         map[string]string
	StudyForms     []string
	Students       []groupMemberOption
}

func parseGroupForm(r *http.Request) groupForm {
	courseYear, _ := strconv.Atoi(r.PostFormValue("course_year"))
	enrollmentYear, _ := strconv.Atoi(r.PostFormValue("enrollment_year"))
	return groupForm{
		GroupName:      r.PostFormValue("group_name"),
		GroupCode:      r.PostFormValue("group_code"),
		CourseYear:     courseYear,
		StudyForm:      r.PostFormValue("study_form"),
		EnrollmentYear: enrollmentYear,
	}
}

func (f groupForm) input() api.GroupInput {
	return api.GroupInput{
		GroupName:      f.GroupName,
		GroupCode:      f.GroupCode,
		CourseYear:     f.CourseYear,
		StudyForm:      f.StudyForm,
		EnrollmentYear: f.EnrollmentYear,
	}
}

func (h *Handler) groupForm(w http.ResponseWriter, r *http.Request) {
	_, role, _, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	page := groupFormPage{Heading: "Add group", Action: "/dashboard/groups", IsNew: true, Form: groupForm{CourseYear: 1}, Errors: map[string]string{}, StudyForms: studyFormOptions}
	h.render(w, r, "pages/form_group.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseGroupForm(r)
	errors := h.validate(form)
	page := groupFormPage{Heading: "Add group", Action: "/dashboard/groups", IsNew: true, Form: form, Errors: errors, StudyForms: studyFormOptions}
	if len(errors) > 0 {
		h.render(w, r, "pages/form_group.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.CreateGroup(r.Context(), token, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save group")
		h.render(w, r, "pages/form_group.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/groups", "success", "Group created")
}

func (h *Handler) groupEditForm(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	group, res := h.api.GetGroup(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		http.NotFound(w, r)
		return
	}
	form := groupForm{GroupName: group.GroupName, GroupCode: group.GroupCode, CourseYear: group.CourseYear, StudyForm: group.StudyForm, EnrollmentYear: group.EnrollmentYear}
	page := groupFormPage{
		Heading:        "Edit group",
		Action:         fmt.Sprintf("/dashboard/groups/%d", id),
		StudentsAction: fmt.Sprintf("/dashboard/groups/%d/students", id),
		Form:           form,
		Errors:         map[string]string{},
		StudyForms:     studyFormOptions,
	}
	if students, sres := h.api.ListStudents(r.Context(), token); sres.Success {
		for _, student := range students {
			name := ""
			if student.User != nil {
				name = student.User.FullName()
			}
			selected := student.Group != nil && student.Group.ID == id
			page.Students = append(page.Students, groupMemberOption{ID: student.ID, Name: name, Selected: selected})
		}
	}
	h.render(w, r, "pages/form_group.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseGroupForm(r)
	errors := h.validate(form)
	page := groupFormPage{Heading: "Edit group", Action: fmt.Sprintf("/dashboard/groups/%d", id), Form: form, Errors: errors, StudyForms: studyFormOptions}
	if len(errors) > 0 {
		h.render(w, r, "pages/form_group.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.UpdateGroup(r.Context(), token, id, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save group")
		h.render(w, r, "pages/form_group.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/groups", "success", "Group updated")
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanDelete) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	res := h.api.DeleteGroup(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		h.redirectWithFlash(w, r, "/dashboard/groups", "error", res.Message("Failed to delete group"))
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/groups", "success", "Group deleted")
}

// replaceGroupStudents swaps the group membership in one bulk call.
func (h *Handler) replaceGroupStudents(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	var studentIDs []int64
	for _, raw := range r.PostForm["student_ids"] {
		if sid, err := strconv.ParseInt(raw, 10, 64); err == nil {
			studentIDs = append(studentIDs, sid)
		}
	}
	res := h.api.ReplaceGroupStudents(r.Context(), token, id, studentIDs)
	if h.guard(w, r, res) {
		return
	}
	target := fmt.Sprintf("/dashboard/groups/%d/edit", id)
	if !res.Success {
		h.redirectWithFlash(w, r, target, "error", res.Message("Failed to update group members"))
		return
	}
	h.redirectWithFlash(w, r, target, "success", "Group members updated")
}
