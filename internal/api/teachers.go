package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListTeachers returns all teacher records.
func (c *Client) ListTeachers(ctx context.Context, token string) ([]Teacher, Result) {
	return decodeList[Teacher](c.Call(ctx, token, http.MethodGet, "/api/teachers", nil))
}

// GetTeacher fetches one teacher record, subjects included.
func (c *Client) GetTeacher(ctx context.Context, token string, id int64) (Teacher, Result) {
	return decodeOne[Teacher](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/teachers/%d", id), nil))
}
