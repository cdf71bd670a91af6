package api

import (
	"context"
	"net/http"
)

// Public endpoints require no credential.

// PublicTeachers lists teachers from the public surface.
func (c *Client) PublicTeachers(ctx context.Context) ([]Teacher, Result) {
	return decodeList[Teacher](c.Call(ctx, "", http.MethodGet, "/api/public/teachers", nil))
}

// PublicSubjects lists subjects from the public surface.
func (c *Client) PublicSubjects(ctx context.Context) ([]Subject, Result) {
	return decodeList[Subject](c.Call(ctx, "", http.MethodGet, "/api/public/subjects", nil))
}

// PublicStudents lists students from the public surface.
func (c *Client) PublicStudents(ctx context.Context) ([]Student, Result) {
	return decodeList[Student](c.Call(ctx, "", http.MethodGet, "/api/public/students", nil))
}

// PublicStatus returns the department's headline counts.
func (c *Client) PublicStatus(ctx context.Context) (DepartmentStatus, Result) {
	return decodeOne[DepartmentStatus](c.Call(ctx, "", http.MethodGet, "/api/public/status", nil))
}

// PublicHealth probes the backend's health endpoint.
func (c *Client) PublicHealth(ctx context.Context) Result {
	return c.Call(ctx, "", http.MethodGet, "/api/public/health", nil)
}

// DepartmentInfo returns the public department description.
func (c *Client) DepartmentInfo(ctx context.Context) (DepartmentInfo, Result) {
	return decodeOne[DepartmentInfo](c.Call(ctx, "", http.MethodGet, "/api/public/department-info", nil))
}
