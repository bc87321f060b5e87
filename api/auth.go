package api

import (
	"context"
	"net/http"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
)

// Login stores the returned token in the session.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, models.Invalid("username and password are required")
	}
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	if err := c.session.SetToken(out.Token); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout always drops the local token, even when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.session.Invalidate()
	return err
}
