package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListGroups returns all study groups.
func (c *Client) ListGroups(ctx context.Context, token string) ([]Group, Result) {
	return decodeList[Group](c.Call(ctx, token, http.MethodGet, "/api/groups", nil))
}

// GetGroup fetches one group.
func (c *Client) GetGroup(ctx context.Context, token string, id int64) (Group, Result) {
	return decodeOne[Group](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/groups/%d", id), nil))
}

// CreateGroup creates a study group.
func (c *Client) CreateGroup(ctx context.Context, token string, input GroupInput) Result {
	return c.Call(ctx, token, http.MethodPost, "/api/groups", input)
}

// UpdateGroup updates a study group.
func (c *Client) UpdateGroup(ctx context.Context, token string, id int64, input GroupInput) Result {
	return c.Call(ctx, token, http.MethodPut, fmt.Sprintf("/api/groups/%d", id), input)
}

// DeleteGroup removes a study group. The backend answers 204 No Content on
// success; the empty body normalizes to the same success shape as a 200 with
// a body, since callers only branch on Success.
func (c *Client) DeleteGroup(ctx context.Context, token string, id int64) Result {
	res := c.Call(ctx, token, http.MethodDelete, fmt.Sprintf("/api/groups/%d", id), nil)
	if res.Status == http.StatusNoContent {
		res.Success = true
		res.Error = ""
	}
	return res
}

// AddStudentToGroup attaches a student to the group.
func (c *Client) AddStudentToGroup(ctx context.Context, token string, groupID, studentID int64) Result {
	return c.Call(ctx, token, http.MethodPost, fmt.Sprintf("/api/groups/%d/students/%d", groupID, studentID), nil)
}

// RemoveStudentFromGroup detaches a student from the group.
func (c *Client) RemoveStudentFromGroup(ctx context.Context, token string, groupID, studentID int64) Result {
	return c.Call(ctx, token, http.MethodDelete, fmt.Sprintf("/api/groups/%d/students/%d", groupID, studentID), nil)
}

// ReplaceGroupStudents swaps the group's membership in one bulk call.
func (c *Client) ReplaceGroupStudents(ctx context.Context, token string, groupID int64, studentIDs []int64) Result {
	return c.Call(ctx, token, http.MethodPut, fmt.Sprintf("/api/groups/%d/students", groupID), map[string][]int64{"studentIds": studentIDs})
}
