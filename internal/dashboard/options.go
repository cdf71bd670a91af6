package dashboard

import (
	"fmt"
	"net/http"

	"github.com/deptboard/deptboard/internal/platform/httpx"
	"github.com/deptboard/deptboard/internal/shared"
)

// The options endpoints feed dependent dropdowns as JSON. They answer with a
// problem document instead of a redirect since the caller is script, not a
// navigation.

func (h *Handler) optionsToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Token() == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return "", false
	}
	return sess.Token(), true
}

func (h *Handler) studentOptions(w http.ResponseWriter, r *http.Request) {
	token, ok := h.optionsToken(w, r)
	if !ok {
		return
	}
	students, res := h.api.ListStudents(r.Context(), token)
	if res.Unauthorized() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if !res.Success {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrUpstream, res.Message("failed to load students")))
		return
	}
	options := make([]optionItem, 0, len(students))
	for _, student := range students {
		name := ""
		if student.User != nil {
			name = student.User.FullName()
		}
		options = append(options, optionItem{ID: student.ID, Name: name})
	}
	httpx.JSON(w, http.StatusOK, options)
}

func (h *Handler) subjectOptions(w http.ResponseWriter, r *http.Request) {
	token, ok := h.optionsToken(w, r)
	if !ok {
		return
	}
	subjects, res := h.api.ListSubjects(r.Context(), token)
	if res.Unauthorized() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if !res.Success {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrUpstream, res.Message("failed to load subjects")))
		return
	}
	options := make([]optionItem, 0, len(subjects))
	for _, subject := range subjects {
		options = append(options, optionItem{ID: subject.ID, Name: subject.SubjectName})
	}
	httpx.JSON(w, http.StatusOK, options)
}

func (h *Handler) teacherOptions(w http.ResponseWriter, r *http.Request) {
	token, ok := h.optionsToken(w, r)
	if !ok {
		return
	}
	teachers, res := h.api.ListTeachers(r.Context(), token)
	if res.Unauthorized() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if !res.Success {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrUpstream, res.Message("failed to load teachers")))
		return
	}
	options := make([]optionItem, 0, len(teachers))
	for _, teacher := range teachers {
		name := teacher.Position
		if teacher.User != nil {
			name = teacher.User.FullName()
		}
		options = append(options, optionItem{ID: teacher.ID, Name: name})
	}
	httpx.JSON(w, http.StatusOK, options)
}
