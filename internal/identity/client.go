// Package identity is the outbound client for the identity/user service
// that owns credentials and permission profiles. Every call carries a
// bounded timeout and honors context cancellation; callers fail closed
// on any error and never retry within a request.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pecadorcelestial/panda-proxy/internal/config"
	"github.com/pecadorcelestial/panda-proxy/internal/permission"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnavailable        = errors.New("identity: service unavailable")
	ErrNotFound           = errors.New("identity: user not found")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// profileResponse is the wire shape of a permission lookup.
type profileResponse struct {
	Email       string             `json:"email"`
	User        string             `json:"user"`
	Permissions []permission.Entry `json:"permissions"`
}

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is the identity service's view of an authenticated caller.
type Account struct {
	User string `json:"user"`
	Type string `json:"type"`
}

type Client struct {
	http *resty.Client
}

func NewClient(cfg config.IdentityConfig) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Permissions fetches the caller's module/letter profile keyed by the
// user claim (email or folio). The profile is fetched fresh per
// decision; no cache sits between the gate and the remote answer.
func (c *Client) Permissions(ctx context.Context, user string) ([]permission.Entry, error) {
	if user == "" {
		return nil, fmt.Errorf("%w: empty user", ErrNotFound)
	}

	var profile profileResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&profile).
		SetPathParam("user", user).
		Get("/users/{user}/permissions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, user)
	case resp.IsError():
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	return profile.Permissions, nil
}

// Authenticate validates a credential pair downstream and returns the
// account the session should be issued for.
func (c *Client) Authenticate(ctx context.Context, email, password string) (Account, error) {
	var account Account
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(authenticateRequest{Email: email, Password: password}).
		SetResult(&account).
		Post("/users/authenticate")
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusNotFound:
		return Account{}, ErrInvalidCredentials
	case resp.IsError():
		return Account{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	if account.User == "" {
		account.User = email
	}
	return account, nil
}
