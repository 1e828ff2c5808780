package roblox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// CookieName is the session cookie Roblox issues on login.
const CookieName = ".ROBLOSECURITY"

// ErrNoCookie is returned when a login succeeds without issuing a session cookie.
var ErrNoCookie = errors.New("roblox: no cookie returned")

type loginRequest struct {
	CType    string `json:"ctype"`
	CValue   string `json:"cvalue"`
	Password string `json:"password"`
}

// Login signs in with a username and password and returns the value of the
// session cookie. The anti-forgery handshake is handled by Send.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	loginURL := c.endpoints.Auth + "/v2/login"
	_, err := c.Send(ctx, Request{
		Method: http.MethodPost,
		URL:    loginURL,
		Body: loginRequest{
			CType:    "Username",
			CValue:   username,
			Password: password,
		},
		JSON: true,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	u, err := url.Parse(loginURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse login URL: %w", err)
	}
	for _, cookie := range c.Cookies(u) {
		if cookie.Name == CookieName {
			return cookie.Value, nil
		}
	}
	return "", ErrNoCookie
}
