// Package pgbackups provides the client for the legacy database backup
// transfer API.
package pgbackups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/snapfork/internal/domain"
)

// DefaultBaseURL is the backup transfer API host.
const DefaultBaseURL = "https://postgres-api.heroku.com"

// finishedAtLayouts covers the timestamp formats the transfer API has been
// observed to emit.
var finishedAtLayouts = []string{
	time.RFC3339,
	"2006/01/02 15:04:05 -0700",
}

// Client is an HTTP client for the backup transfer API. It implements
// out.TransferClient. Auth is basic with an empty username and the API key
// as password.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// NewClient creates a transfer API client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// Capture requests a new expiring backup of dbName. An empty id with a nil
// error means the provider did not accept the request yet.
func (c *Client) Capture(ctx context.Context, dbName string) (string, error) {
	path := fmt.Sprintf("/client/v11/databases/%s/backups", dbName)
	resp, err := c.request(ctx, http.MethodPost, path, map[string]any{"expire": true})
	if err != nil {
		return "", err
	}

	var payload struct {
		UUID string `json:"uuid"`
	}
	if err := parseResponse(resp, &payload); err != nil {
		return "", fmt.Errorf("capture backup of %s: %w", dbName, err)
	}
	return payload.UUID, nil
}

type transferPayload struct {
	UUID       string          `json:"uuid"`
	Errors     json.RawMessage `json:"errors"`
	FinishedAt string          `json:"finished_at"`
}

// Transfer fetches the detail record for a transfer.
func (c *Client) Transfer(ctx context.Context, dbName, id string) (domain.TransferDetail, error) {
	path := fmt.Sprintf("/client/v11/databases/%s/transfers/%s", dbName, id)
	resp, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.TransferDetail{}, err
	}

	var payload transferPayload
	if err := parseResponse(resp, &payload); err != nil {
		return domain.TransferDetail{}, fmt.Errorf("get transfer %s of %s: %w", id, dbName, err)
	}

	detail := domain.TransferDetail{ID: payload.UUID}
	if hasErrors(payload.Errors) {
		detail.Errors = []string{string(payload.Errors)}
	}
	if payload.FinishedAt != "" {
		ts, err := parseFinishedAt(payload.FinishedAt)
		if err != nil {
			return domain.TransferDetail{}, fmt.Errorf("parse finished_at of transfer %s: %w", id, err)
		}
		detail.FinishedAt = &ts
	}
	return detail, nil
}

// hasErrors reports whether the raw errors field carries anything besides
// JSON null or an empty container.
func hasErrors(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "{}", "[]":
		return false
	}
	return true
}

func parseFinishedAt(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range finishedAtLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// request performs an HTTP request against the transfer API.
func (c *Client) request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth("", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// parseResponse parses a JSON response into the given target.
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, string(body))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
