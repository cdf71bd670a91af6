package dashboard

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/deptboard/deptboard/internal/access"
	"github.com/deptboard/deptboard/internal/api"
)

type subjectForm struct {
	SubjectName    string `validate:"required"`
	SubjectCode    string `validate:"required"`
	Credits        int    `validate:"min=1,max=30"`
	Semester       int    `validate:"min=1,max=12"`
	LectureHours   int    `validate:"min=0"`
	PracticeHours  int    `validate:"min=0"`
	LabHours       int    `validate:"min=0"`
	AssessmentType string `validate:"required"`
	Description    string
}

type assignedTeacher struct {
	Name        string
	UnassignURL string
}

type subjectFormPage struct {
	Heading          string
	Action           string
	AssignAction     string
	IsNew            bool
	Form             subjectForm
	Errors           map[string]string
	AssessmentTypes  []string
	Teachers         []optionItem
	AssignedTeachers []assignedTeacher
}

func parseSubjectForm(r *http.Request) subjectForm {
	atoi := func(name string) int {
		n, _ := strconv.Atoi(r.PostFormValue(name))
		return n
	}
	return subjectForm{
		SubjectName:    r.PostFormValue("subject_name"),
		SubjectCode:    r.PostFormValue("subject_code"),
		Credits:        atoi("credits"),
		Semester:       atoi("semester"),
		LectureHours:   atoi("lecture_hours"),
		PracticeHours:  atoi("practice_hours"),
		LabHours:       atoi("lab_hours"),
		AssessmentType: r.PostFormValue("assessment_type"),
		Description:    r.PostFormValue("description"),
	}
}

func (f subjectForm) input() api.SubjectInput {
	return api.SubjectInput{
		SubjectName:    f.SubjectName,
		SubjectCode:    f.SubjectCode,
		Credits:        f.Credits,
		Semester:       f.Semester,
		LectureHours:   f.LectureHours,
		PracticeHours:  f.PracticeHours,
		LabHours:       f.LabHours,
		AssessmentType: f.AssessmentType,
		Description:    f.Description,
	}
}

func (h *Handler) subjectForm(w http.ResponseWriter, r *http.Request) {
	_, role, _, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	page := subjectFormPage{
		Heading:         "Add subject",
		Action:          "/dashboard/subjects",
		IsNew:           true,
		Form:            subjectForm{Credits: 3, Semester: 1},
		Errors:          map[string]string{},
		AssessmentTypes: assessmentOptions,
	}
	h.render(w, r, "pages/form_subject.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) createSubject(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanCreate) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseSubjectForm(r)
	errors := h.validate(form)
	page := subjectFormPage{
		Heading:         "Add subject",
		Action:          "/dashboard/subjects",
		IsNew:           true,
		Form:            form,
		Errors:          errors,
		AssessmentTypes: assessmentOptions,
	}
	if len(errors) > 0 {
		h.render(w, r, "pages/form_subject.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.CreateSubject(r.Context(), token, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save subject")
		h.render(w, r, "pages/form_subject.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/subjects", "success", "Subject created")
}

func (h *Handler) subjectEditForm(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	subject, res := h.api.GetSubject(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		http.NotFound(w, r)
		return
	}
	form := subjectForm{
		SubjectName:    subject.SubjectName,
		SubjectCode:    subject.SubjectCode,
		Credits:        subject.Credits,
		Semester:       subject.Semester,
		LectureHours:   subject.LectureHours,
		PracticeHours:  subject.PracticeHours,
		LabHours:       subject.LabHours,
		AssessmentType: subject.AssessmentType,
		Description:    subject.Description,
	}
	page := subjectFormPage{
		Heading:         "Edit subject",
		Action:          fmt.Sprintf("/dashboard/subjects/%d", id),
		AssignAction:    fmt.Sprintf("/dashboard/subjects/%d/teachers", id),
		Form:            form,
		Errors:          map[string]string{},
		AssessmentTypes: assessmentOptions,
	}
	for _, teacher := range subject.Teachers {
		name := teacher.Position
		if teacher.User != nil {
			name = teacher.User.FullName()
		}
		page.AssignedTeachers = append(page.AssignedTeachers, assignedTeacher{
			Name:        name,
			UnassignURL: fmt.Sprintf("/dashboard/subjects/%d/teachers/%d/remove", id, teacher.ID),
		})
	}
	if teachers, tres := h.api.ListTeachers(r.Context(), token); tres.Success {
		assigned := make(map[int64]bool, len(subject.Teachers))
		for _, teacher := range subject.Teachers {
			assigned[teacher.ID] = true
		}
		for _, teacher := range teachers {
			if assigned[teacher.ID] {
				continue
			}
			name := teacher.Position
			if teacher.User != nil {
				name = teacher.User.FullName()
			}
			page.Teachers = append(page.Teachers, optionItem{ID: teacher.ID, Name: name})
		}
	}
	h.render(w, r, "pages/form_subject.html", page.Heading, page, http.StatusOK)
}

func (h *Handler) updateSubject(w http.ResponseWriter, r *http.Request) {
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
	form := parseSubjectForm(r)
	errors := h.validate(form)
	page := subjectFormPage{
		Heading:         "Edit subject",
		Action:          fmt.Sprintf("/dashboard/subjects/%d", id),
		AssignAction:    fmt.Sprintf("/dashboard/subjects/%d/teachers", id),
		Form:            form,
		Errors:          errors,
		AssessmentTypes: assessmentOptions,
	}
	if len(errors) > 0 {
		h.render(w, r, "pages/form_subject.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	res := h.api.UpdateSubject(r.Context(), token, id, form.input())
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		page.Errors["general"] = res.Message("Failed to save subject")
		h.render(w, r, "pages/form_subject.html", page.Heading, page, http.StatusBadRequest)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/subjects", "success", "Subject updated")
}

func (h *Handler) deleteSubject(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanDelete) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	res := h.api.DeleteSubject(r.Context(), token, id)
	if h.guard(w, r, res) {
		return
	}
	if !res.Success {
		h.redirectWithFlash(w, r, "/dashboard/subjects", "error", res.Message("Failed to delete subject"))
		return
	}
	h.redirectWithFlash(w, r, "/dashboard/subjects", "success", "Subject deleted")
}

func (h *Handler) assignTeacher(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	teacherID, err := strconv.ParseInt(r.PostFormValue("teacher_id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res := h.api.AssignTeacher(r.Context(), token, id, teacherID)
	if h.guard(w, r, res) {
		return
	}
	target := fmt.Sprintf("/dashboard/subjects/%d/edit", id)
	if !res.Success {
		h.redirectWithFlash(w, r, target, "error", res.Message("Failed to assign teacher"))
		return
	}
	h.redirectWithFlash(w, r, target, "success", "Teacher assigned")
}

func (h *Handler) unassignTeacher(w http.ResponseWriter, r *http.Request) {
	_, role, token, ok := h.requireUser(w, r, false)
	if !ok || !h.requirePerm(w, access.PermissionsFor(role).CanEdit) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	teacherID, ok := pathID(r, "teacherID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	res := h.api.UnassignTeacher(r.Context(), token, id, teacherID)
	if h.guard(w, r, res) {
		return
	}
	target := fmt.Sprintf("/dashboard/subjects/%d/edit", id)
	if !res.Success {
		h.redirectWithFlash(w, r, target, "error", res.Message("Failed to remove teacher"))
		return
	}
	h.redirectWithFlash(w, r, target, "success", "Teacher removed")
}
