package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListSubjects returns all subjects.
func (c *Client) ListSubjects(ctx context.Context, token string) ([]Subject, Result) {
	return decodeList[Subject](c.Call(ctx, token, http.MethodGet, "/api/subjects", nil))
}

// GetSubject fetches one subject, assigned teachers included.
func (c *Client) GetSubject(ctx context.Context, token string, id int64) (Subject, Result) {
	return decodeOne[Subject](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/subjects/%d", id), nil))
}

// CreateSubject creates a subject.
func (c *Client) CreateSubject(ctx context.Context, token string, input SubjectInput) Result {
	return c.Call(ctx, token, http.MethodPost, "/api/subjects", input)
}

// UpdateSubject updates a subject.
func (c *Client) UpdateSubject(ctx context.Context, token string, id int64, input SubjectInput) Result {
	return c.Call(ctx, token, http.MethodPut, fmt.Sprintf("/api/subjects/%d", id), input)
}

// DeleteSubject removes a subject.
func (c *Client) DeleteSubject(ctx context.Context, token string, id int64) Result {
	return c.Call(ctx, token, http.MethodDelete, fmt.Sprintf("/api/subjects/%d", id), nil)
}

// SubjectsByTeacher lists the subjects taught by the given teacher. Teachers
// browse this scoped listing, never the full catalogue.
func (c *Client) SubjectsByTeacher(ctx context.Context, token string, teacherID int64) ([]Subject, Result) {
	teacher, res := c.GetTeacher(ctx, token, teacherID)
	if !res.Success {
		return nil, res
	}
	return teacher.Subjects, res
}

// AssignTeacher attaches a teacher to the subject.
func (c *Client) AssignTeacher(ctx context.Context, token string, subjectID, teacherID int64) Result {
	return c.Call(ctx, token, http.MethodPost, fmt.Sprintf("/api/subjects/%d/teachers/%d", subjectID, teacherID), nil)
}

// UnassignTeacher detaches a teacher from the subject.
func (c *Client) UnassignTeacher(ctx context.Context, token string, subjectID, teacherID int64) Result {
	return c.Call(ctx, token, http.MethodDelete, fmt.Sprintf("/api/subjects/%d/teachers/%d", subjectID, teacherID), nil)
}
