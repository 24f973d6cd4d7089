// Package api talks to the remote items REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/idilsaglam/items/internal/model"
)

// DefaultBaseURL is where the items API lives.
const DefaultBaseURL = "http://localhost:5000/api"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// Client performs the four item calls. It has no timeout and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

// WithBaseURL points the client somewhere other than DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL reports the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches every item in server order.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Item{}
	}
	return out, nil
}

// Create posts d and returns the item the server stored.
func (c *Client) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPost, "/items", d, &out)
	return out, err
}

// Update replaces the record id with d.
func (c *Client) Update(ctx context.Context, id model.ID, d model.Draft) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPut, itemPath(id), d, &out)
	return out, err
}

// Delete removes id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id model.ID) string {
	return "/items/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("request", zap.String("method", method), zap.String("url", req.URL.String()))
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("response", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}
