package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListStudents returns all student records.
func (c *Client) ListStudents(ctx context.Context, token string) ([]Student, Result) {
	return decodeList[Student](c.Call(ctx, token, http.MethodGet, "/api/students", nil))
}

// GetStudent fetches one student record.
func (c *Client) GetStudent(ctx context.Context, token string, id int64) (Student, Result) {
	return decodeOne[Student](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/students/%d", id), nil))
}

// StudentsByTeacher lists the students taught by the given teacher.
func (c *Client) StudentsByTeacher(ctx context.Context, token string, teacherID int64) ([]Student, Result) {
	return decodeList[Student](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/teachers/%d/students", teacherID), nil))
}
