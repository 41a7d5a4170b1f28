// Package remote is the client for the hosted data service: password
// auth, row tables with equality filters and ordering, and an object
// storage bucket. The service is the durable owner of record; everything
// in this module is a cache over it.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

type Config struct {
	BaseURL string
	APIKey  string
}

type Client struct {
	client *http.Client
	config Config

	mu    sync.RWMutex
	token string // access token of the signed-in session, if any
}

func NewClient(cfg Config) *Client {
	c := &Client{config: cfg}
	c.client = &http.Client{
		Transport: &authTransport{
			apiKey: cfg.APIKey,
			token:  c.bearer,
			base:   http.DefaultTransport,
		},
		Timeout: 10 * time.Second,
	}
	return c
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" {
		return c.token
	}
	return c.config.APIKey
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// authTransport adds the service API key and bearer headers.
type authTransport struct {
	apiKey string
	token  func() string
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("apikey", t.apiKey)
	req.Header.Set("Authorization", "Bearer "+t.token())
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

// APIError is the error body returned by the hosted service.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	ErrorDesc  string `json:"error_description"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorDesc
	}
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("remote: %s (status %d)", msg, e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, contentType string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		raw, _ := io.ReadAll(res.Body)
		if err := json.Unmarshal(raw, apiErr); err != nil || (apiErr.Message == "" && apiErr.ErrorDesc == "") {
			return fmt.Errorf("remote: unexpected status %d, body: %s", res.StatusCode, string(raw))
		}
		return apiErr
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(dest)
}
