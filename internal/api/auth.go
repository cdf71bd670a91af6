package api

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login authenticates against the backend. The token travels in the payload's
// message field, an artifact of the backend's response shape. Callers must
// check both the transport-level result and the returned accepted flag before
// trusting the token.
func (c *Client) Login(ctx context.Context, username, password string) (token string, accepted bool, res Result) {
	res = c.Call(ctx, "", http.MethodPost, "/api/auth/login", loginRequest{Username: username, Password: password})
	if !res.Success {
		return "", false, res
	}
	var payload loginResponse
	if err := res.Decode(&payload); err != nil {
		return "", false, res.failDecode(err)
	}
	if !payload.Success {
		return "", false, res
	}
	return payload.Message, true, res
}

// Logout tells the backend to invalidate the session. Best effort: callers
// clear the local credential regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) Result {
	return c.Call(ctx, token, http.MethodPost, "/api/auth/logout", nil)
}

// CurrentUser fetches the authenticated user's profile. This is the single
// verification point for a stored credential.
func (c *Client) CurrentUser(ctx context.Context, token string) (User, Result) {
	res := c.Call(ctx, token, http.MethodGet, "/api/auth/current-user", nil)
	if !res.Success {
		return User{}, res
	}
	var user User
	if err := res.Decode(&user); err != nil {
		return User{}, res.failDecode(err)
	}
	return user, res
}
