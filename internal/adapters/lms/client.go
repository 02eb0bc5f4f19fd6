// Package lms is the HTTP adapter for a Canvas-compatible course service.
//
// All requests carry the bearer credential held by the Client; no global
// header state exists anywhere in the process.
package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/gradebench/pkg/logger"
)

// Default client configuration constants.
const (
	defaultTimeout = 30 * time.Second
	defaultPerPage = 50
)

// Client talks to one course on the course-management service.
type Client struct {
	baseURL  string
	token    string
	courseID int64
	perPage  int

	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a course service client with configuration options.
func NewClient(baseURL, token string, courseID int64, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		courseID:   courseID,
		perPage:    defaultPerPage,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.Get().Named("lms"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs an authorized GET and decodes the 2xx JSON body into out.
// The response is returned so callers can read pagination headers.
func (c *Client) get(ctx context.Context, url string, out interface{}) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: GET %s returned status %d", ErrTransport, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("%w: decoding GET %s: %v", ErrTransport, url, err)
	}
	return resp, nil
}

// put performs an authorized JSON PUT and reports whether the service
// answered with a 2xx status.
func (c *Client) put(ctx context.Context, url string, body interface{}) (bool, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("%w: encoding PUT %s: %v", ErrTransport, url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}
