package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListGrades returns all grade records.
func (c *Client) ListGrades(ctx context.Context, token string) ([]Grade, Result) {
	return decodeList[Grade](c.Call(ctx, token, http.MethodGet, "/api/grades", nil))
}

// GetGrade fetches one grade.
func (c *Client) GetGrade(ctx context.Context, token string, id int64) (Grade, Result) {
	return decodeOne[Grade](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/grades/%d", id), nil))
}

// CreateGrade records a new grade.
func (c *Client) CreateGrade(ctx context.Context, token string, input GradeInput) Result {
	return c.Call(ctx, token, http.MethodPost, "/api/grades", input)
}

// UpdateGrade updates a grade.
func (c *Client) UpdateGrade(ctx context.Context, token string, id int64, input GradeInput) Result {
	return c.Call(ctx, token, http.MethodPut, fmt.Sprintf("/api/grades/%d", id), input)
}

// DeleteGrade removes a grade.
func (c *Client) DeleteGrade(ctx context.Context, token string, id int64) Result {
	return c.Call(ctx, token, http.MethodDelete, fmt.Sprintf("/api/grades/%d", id), nil)
}

// MyGrades lists the grades of the authenticated student.
func (c *Client) MyGrades(ctx context.Context, token string) ([]Grade, Result) {
	return decodeList[Grade](c.Call(ctx, token, http.MethodGet, "/api/grades/my-grades", nil))
}

// GradesByStudent lists one student's grades.
func (c *Client) GradesByStudent(ctx context.Context, token string, studentID int64) ([]Grade, Result) {
	return decodeList[Grade](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/grades/student/%d", studentID), nil))
}

// GradesBySubject lists a subject's grades.
func (c *Client) GradesBySubject(ctx context.Context, token string, subjectID int64) ([]Grade, Result) {
	return decodeList[Grade](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/grades/subject/%d", subjectID), nil))
}

// GradesByTeacher lists the grades recorded by a teacher.
func (c *Client) GradesByTeacher(ctx context.Context, token string, teacherID int64) ([]Grade, Result) {
	return decodeList[Grade](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/grades/teacher/%d", teacherID), nil))
}

// GradesByType lists grades of one type.
func (c *Client) GradesByType(ctx context.Context, token, gradeType string) ([]Grade, Result) {
	return decodeList[Grade](c.Call(ctx, token, http.MethodGet, "/api/grades/type/"+url.PathEscape(gradeType), nil))
}

// StudentAverage returns a student's average grade.
func (c *Client) StudentAverage(ctx context.Context, token string, studentID int64) (float64, Result) {
	res := c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/grades/student/%d/average", studentID), nil)
	if !res.Success {
		return 0, res
	}
	var avg float64
	if err := res.Decode(&avg); err != nil {
		return 0, res.failDecode(err)
	}
	return avg, res
}

// StudentFinals lists a student's final grades.
func (c *Client) StudentFinals(ctx context.Context, token string, studentID int64) ([]Grade, Result) {
	return decodeList[Grade](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/grades/student/%d/finals", studentID), nil))
}
