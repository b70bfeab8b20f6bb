// Package notifier calls a remote manageData endpoint over HTTP.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/starford/calpick/internal/calendar"
	"github.com/starford/calpick/internal/picker"
)

// Request is the manageData request body.
type Request struct {
	SelectedDate calendar.Date `json:"selectedDate"`
}

// Client posts selected dates to a manageData endpoint.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// Verify *Client satisfies picker.Notifier at compile time.
var _ picker.Notifier = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a Bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a Client for the endpoint at url.
func New(url string, opts ...Option) *Client {
	c := &Client{url: url, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ManageData posts date and decodes the Result.
func (c *Client) ManageData(ctx context.Context, date calendar.Date) (picker.Result, error) {
	body, err := json.Marshal(Request{SelectedDate: date})
	if err != nil {
		return picker.Result{}, fmt.Errorf("notifier: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return picker.Result{}, fmt.Errorf("notifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return picker.Result{}, fmt.Errorf("notifier: post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return picker.Result{}, fmt.Errorf("notifier: %s: status %d: %s",
			c.url, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var res picker.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return picker.Result{}, fmt.Errorf("notifier: decode: %w", err)
	}
	return res, nil
}
