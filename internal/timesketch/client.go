// Package timesketch is a minimal client for a Timesketch-compatible
// event search backend. It covers session authentication, sketch
// lookup, and query execution; storage and indexing internals stay on
// the server side.
package timesketch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client holds an authenticated session against one backend endpoint.
type Client struct {
	endpoint string
	username string
	token    string
	client   *http.Client
}

// Connect creates a client and authenticates with username and password,
// obtaining a session token. Returns an error if the backend is
// unreachable or rejects the credentials.
func Connect(ctx context.Context, endpoint, username, password string) (*Client, error) {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		username: username,
		client:   &http.Client{Timeout: 30 * time.Second},
	}

	body := map[string]string{"username": username, "password": password}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/token", body, &resp); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("authenticate: no session token returned")
	}
	c.token = resp.AccessToken
	return c, nil
}

// NewWithToken creates a client from a previously issued session token
// without a network round trip.
func NewWithToken(endpoint, username, token string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		username: username,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// HasSession reports whether the client carries a session token.
func (c *Client) HasSession() bool {
	return c != nil && c.token != ""
}

// Endpoint returns the backend base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Sketch fetches the sketch with the given id. A 404 from the backend
// becomes a "sketch not found" error.
func (c *Client) Sketch(ctx context.Context, id int) (*Sketch, error) {
	var resp struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/sketches/%d", id), nil, &resp)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("sketch %d not found", id)
		}
		return nil, fmt.Errorf("get sketch %d: %w", id, err)
	}
	return &Sketch{ID: resp.ID, Name: resp.Name, client: c}, nil
}

// statusError carries the HTTP status of a failed backend call.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.status, e.body)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

// do performs one JSON request against the backend. body and out may be
// nil. Non-2xx responses become statusError values.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// Sketch is a handle to one named collection of indexed events. It is
// created once per pipeline run and read-only afterward.
type Sketch struct {
	ID     int
	Name   string
	client *Client
}
