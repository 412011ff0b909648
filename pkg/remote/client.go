// Package remote implements the HTTP collaborators of the engine: snapshot
// persistence and media upload.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Environment variables read by the FromEnv constructors.
const (
	EnvSaveURL  = "MJOP_SAVE_URL"
	EnvMediaURL = "MJOP_MEDIA_URL"
	EnvToken    = "MJOP_TOKEN"
)

// ErrNotConfigured is returned by the FromEnv constructors when the endpoint
// variable is unset.
var ErrNotConfigured = errors.New("remote: endpoint not configured")

// maxErrorBody bounds how much of an error response is quoted in errors.
const maxErrorBody = 512

// Option configures a client.
type Option func(*client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		cl.httpClient = c
	}
}

type client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func newClient(endpoint, token string, opts []Option) client {
	c := client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// do sends req and returns the response if its status is 2xx. The caller
// closes the body.
func (c *client) do(ctx context.Context, req *http.Request, what string) (*http.Response, error) {
	c.setAuth(req)

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("remote: %s: %w", what, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("remote: %s returned %d: %s", what, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// fromEnv reads an endpoint from urlEnv and the token from tokenEnv, falling
// back to MJOP_TOKEN when tokenEnv is empty.
func fromEnv(urlEnv, tokenEnv string) (string, string, error) {
	endpoint := os.Getenv(urlEnv)
	if endpoint == "" {
		return "", "", fmt.Errorf("%w: %s not set", ErrNotConfigured, urlEnv)
	}
	if tokenEnv == "" {
		tokenEnv = EnvToken
	}
	return endpoint, os.Getenv(tokenEnv), nil
}
