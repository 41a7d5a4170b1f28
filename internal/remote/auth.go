package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Identity is the authenticated principal the auth endpoints return.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	AccessToken string   `json:"access_token"`
	User        Identity `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) authURL(path string) string {
	return c.config.BaseURL + "/auth/v1/" + path
}

func (c *Client) authPost(ctx context.Context, url string, creds credentials) (*Identity, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	var sess sessionResponse
	if err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body), "application/json", &sess); err != nil {
		return nil, err
	}
	if sess.User.ID == "" {
		return nil, fmt.Errorf("remote: no user returned from auth")
	}
	if sess.AccessToken != "" {
		c.setToken(sess.AccessToken)
	}
	return &sess.User, nil
}

// SignUp registers email/password credentials and returns the new identity.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return c.authPost(ctx, c.authURL("signup"), credentials{Email: email, Password: password})
}

// SignIn opens a session; subsequent table and storage calls carry its token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return c.authPost(ctx, c.authURL("token?grant_type=password"), credentials{Email: email, Password: password})
}

// SignOut revokes the session token and reverts to anonymous access.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, c.authURL("logout"), nil, "", nil)
	c.setToken("")
	return err
}
