package apiclient

import (
	"context"
	"net/http"

	"github.com/upslab/labportal/internal/core/domain"
)

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) LoginAdmin(ctx context.Context, creds domain.Credentials) (string, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login-admin", creds, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/register", reg, nil)
}

func (c *Client) RegisterAdmin(ctx context.Context, reg domain.Registration) error {
	reg.Admin = true
	return c.do(ctx, http.MethodPost, "/auth/register-admin", reg, nil)
}

// Logout asks the API to revoke the caller's token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
