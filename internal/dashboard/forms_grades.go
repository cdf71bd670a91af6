package dashboard

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/deptboard/deptboard/internal/access"
	"github.com/deptboard/deptboard/internal/api"
)

type gradeForm struct {
	StudentID  int64
	SubjectID  int64
	TeacherID  int64
	GradeType  string
	GradeValue float64
	GradeDate  string
	Comments   string
}

type gradeFormPage struct {
	Heading    string
	Action     string
	IsNew      bool
	Form       gradeForm
	Errors     map[string]string
	GradeTypes []string
	Students   []optionItem
	Subjects   []optionItem
	Teachers   []optionItem
}

func parseGradeForm(r *http.Request) gradeForm {
	parse := func(name string) int64 {
		n, _ := strconv.ParseInt(r.PostFormValue(name), 10, 64)
		return n
	}
	value, _ := strconv.ParseFloat(r.PostFormValue("grade_value"), 64)
	return gradeForm{
		StudentID:  parse("student_id"),
		SubjectID:  parse("subject_id"),
		TeacherID:  parse("teacher_id"),
		GradeType:  r.PostFormValue("grade_type"),
		GradeValue: value,
		GradeDate:  r.PostFormValue("grade_date"),
		Comments:   r.PostFormValue("comments"),
	}
}

// gradeOptions loads the dropdown lists for the grade form. The teacher is
// always an explicit, required selection resolved against the live teacher
// listing; it is never assumed from a fixed id.
func (h *Handler) gradeOptions(r *http.Request, page *gradeFormPage, token string) {
	ctx := r.Context()
	if students, res := h.api.ListStudents(ctx, token); res.Success {
		for _, student := range students {
			name := ""
			if student.User != nil {
				name = student.User.FullName()
			}
			page.Students = append(page.Students, optionItem{ID: student.ID, Name: name})
		}
	}
	if subjects, res := h.api.ListSubjects(ctx, token); res.Success {
		for _, subject := range subjects {
			page.Subjects = append(page.Subjects, optionItem{ID: subject.ID, Name: subject.SubjectName})
		}
	}
	if teachers, res := h.api.ListTeachers(ctx, token); res.Success {
		for _, teacher := range teachers {
			name := teacher.Position
			if teacher.User != nil {
				name = teacher.User.FullName()
			}
			page.Teachers = append(page.Teachers, optionItem{ID: teacher.ID, Name: name})
		}
	}
}

func (f gradeForm) input() api.GradeInput {
	return api.GradeInput{
		StudentID:  f.StudentID,
		SubjectID:  f.SubjectID,
		TeacherID:  f.TeacherID,
		GradeType:  f.GradeType,
		GradeValue: f.GradeValue,
		Comments:   f.Comments,
		GradeDate:  f.GradeDate,
	}
}

func validateGradeForm(form gradeForm) map[string]string {
	errors := make(map[string]string)
	if form.StudentID < 1 {
		errors["StudentID"] = "Invalid value"
	}
	if form.SubjectID < 1 {
		errors["SubjectID"] = "Invalid value"
	}
	if form.TeacherID < 1 {
		errors["TeacherID"] = "Invalid value"
	}
	if form.GradeValue < 0 || form.GradeValue > 100 {
		errors["GradeValue"] = "Invalid value"
	}
	valid := false
	for _, gradeType := range api.GradeTypes {
		if form.GradeType == gradeType {
			valid = true
			break
		}
	}
	if !valid {
		errors["GradeType"] = "Invalid value"
	}
	return errors
}

func (h *Handler) gradeForm(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	page := gradeFormPage{
		Heading:    "Add grade",
		Action:     "/dashboard/grades",
		IsNew:      true,
		Form:       gradeForm{GradeType: "CURRENT"},
		Errors:     map[string]string{},
		GradeTypes: api.GradeTypes,
	}
	h.gradeOptions(r, &page, token)
	h.render(w, r, "pages/form_grade.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) createGrade(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseGradeForm(r)
	errors := validateGradeForm(form)
	page := gradeFormPage{
		Heading:    "Add grade",
		Action:     "/dashboard/grades",
		IsNew:      true,
		Form:       form,
		Errors:     errors,
		GradeTypes: api.GradeTypes,
	}
	if len(errors) > 0 {
		h.gradeOptions(r, &page, token)
		h.render(w, r, "pages/form_grade.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.CreateGrade(r.Context(), token, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save grade")
		h.gradeOptions(r, &page, token)
		h.render(w, r, "pages/form_grade.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/grades", "success", "Grade created")
}

func (h *Handler) gradeEditForm(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	grade, res := h.api.GetGrade(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		http.NotFound(w, r)
		return
	}
	form := gradeForm{
		StudentID:  grade.StudentID,
		SubjectID:  grade.SubjectID,
		TeacherID:  grade.TeacherID,
		GradeType:  grade.GradeType,
		GradeValue: grade.GradeValue,
		GradeDate:  grade.GradeDate,
		Comments:   grade.Comments,
	}
	page := gradeFormPage{
		Heading:    "Edit grade",
		Action:     fmt.Sprintf("/dashboard/grades/%d", id),
		Form:       form,
		Errors:     map[string]string{},
		GradeTypes: api.GradeTypes,
	}
	h.gradeOptions(r, &page, token)
	h.render(w, r, "pages/form_grade.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) updateGrade(w http.ResponseWriter, r *http.Request) {
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
	form := parseGradeForm(r)
	errors := validateGradeForm(form)
	page := gradeFormPage{
		Heading:    "Edit grade",
		Action:     fmt.Sprintf("/dashboard/grades/%d", id),
		Form:       form,
		Errors:     errors,
		GradeTypes: api.GradeTypes,
	}
	if len(errors) > 0 {
		h.gradeOptions(r, &page, token)
		h.render(w, r, "pages/form_grade.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.UpdateGrade(r.Context(), token, id, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save grade")
		h.gradeOptions(r, &page, token)
		h.render(w, r, "pages/form_grade.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/grades", "success", "Grade updated")
}

func (h *Handler) deleteGrade(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanDelete) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	res := h.api.DeleteGrade(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		h.redirectWithFlash(w, r, "/dashboard/grades", "error", res.Message("Failed to delete grade"))
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/grades", "success", "Grade deleted")
}
