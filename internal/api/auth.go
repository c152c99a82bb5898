package api

import (
	"context"

	"github.com/monukmodi/smart-expense-tracker-client/internal/session"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  session.Profile `json:"user"`
}

// Login exchanges credentials for a token and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Profile, error) {
	var resp authResponse
	if err := c.do(ctx, "POST", "/api/auth/login", credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.session.SetSession(resp.Token, &resp.User)
	return &resp.User, nil
}

// Register creates an account and persists the returned session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*session.Profile, error) {
	var resp authResponse
	if err := c.do(ctx, "POST", "/api/auth/register", credentials{Name: name, Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.session.SetSession(resp.Token, &resp.User)
	return &resp.User, nil
}

// Logout drops the persisted session. Purely local; the backend keeps no
// server-side session state.
func (c *Client) Logout() {
	c.session.Clear()
}

// CurrentUser returns the stored profile, or nil when signed out.
func (c *Client) CurrentUser() *session.Profile {
	return c.session.User()
}
