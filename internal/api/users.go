package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListUsers returns all user accounts.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, Result) {
	return decodeList[User](c.Call(ctx, token, http.MethodGet, "/api/users", nil))
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, token string, id int64) (User, Result) {
	return decodeOne[User](c.Call(ctx, token, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil))
}

// CreateUser creates a user account.
func (c *Client) CreateUser(ctx context.Context, token string, input UserInput) Result {
	return c.Call(ctx, token, http.MethodPost, "/api/users", input)
}

// UpdateUser updates a user account.
func (c *Client) UpdateUser(ctx context.Context, token string, id int64, input UserInput) Result {
	return c.Call(ctx, token, http.MethodPut, fmt.Sprintf("/api/users/%d", id), input)
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, token string, id int64) Result {
	return c.Call(ctx, token, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
}

// SetUserActive flips the account's active flag.
func (c *Client) SetUserActive(ctx context.Context, token string, id int64, active bool) Result {
	return c.Call(ctx, token, http.MethodPut, fmt.Sprintf("/api/users/%d/active", id), map[string]bool{"isActive": active})
}

// SearchUsers performs a server-side name/email search.
func (c *Client) SearchUsers(ctx context.Context, token, query string) ([]User, Result) {
	return decodeList[User](c.Call(ctx, token, http.MethodGet, "/api/users/search?query="+url.QueryEscape(query), nil))
}

// UsersByRole lists accounts holding the given role.
func (c *Client) UsersByRole(ctx context.Context, token, role string) ([]User, Result) {
	return decodeList[User](c.Call(ctx, token, http.MethodGet, "/api/users/by-role/"+url.PathEscape(role), nil))
}

func decodeList[T any](res Result) ([]T, Result) {
	if !res.Success {
		return nil, res
	}
	var items []T
	if err := res.Decode(&items); err != nil {
		return nil, res.failDecode(err)
	}
	return items, res
}

func decodeOne[T any](res Result) (T, Result) {
	var item T
	if !res.Success {
		return item, res
	}
	if err := res.Decode(&item); err != nil {
		return item, res.failDecode(err)
	}
	return item, res
}
