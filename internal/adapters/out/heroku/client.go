// Package heroku provides the platform API client used to manage database
// addons and config vars.
package heroku

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

const (
	// DefaultBaseURL is the platform API host.
	DefaultBaseURL = "https://api.heroku.com"
	// acceptHeader pins the versioned media type the platform requires.
	acceptHeader = "application/vnd.heroku+json; version=3"
)

// Client is an HTTP client for the platform API. It implements
// out.PlatformClient.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// NewClient creates a platform API client authenticated with apiKey.
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

// ConfigVars returns the application's config vars.
func (c *Client) ConfigVars(ctx context.Context, app string) (map[string]string, error) {
	resp, err := c.request(ctx, http.MethodGet, "/apps/"+app+"/config-vars", nil)
	if err != nil {
		return nil, err
	}

	var vars map[string]string
	if err := parseResponse(resp, &vars); err != nil {
		return nil, fmt.Errorf("get config vars for %s: %w", app, err)
	}
	return vars, nil
}

type addonPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AddonService struct {
		Name string `json:"name"`
	} `json:"addon_service"`
	ConfigVars []string `json:"config_vars"`
}

func (p addonPayload) toDomain() domain.Addon {
	return domain.Addon{
		ID:          p.ID,
		Name:        p.Name,
		ServiceName: p.AddonService.Name,
		ConfigVars:  p.ConfigVars,
	}
}

// CreateAddon provisions a database addon as a fork of opts.ForkFrom.
func (c *Client) CreateAddon(ctx context.Context, app string, opts domain.ForkOptions) (*domain.Addon, error) {
	body := map[string]any{
		"plan": opts.Plan,
		"config": map[string]any{
			"fork": opts.ForkFrom,
			"fast": opts.Fast,
		},
	}

	resp, err := c.request(ctx, http.MethodPost, "/apps/"+app+"/addons", body)
	if err != nil {
		return nil, err
	}

	var payload addonPayload
	if err := parseResponse(resp, &payload); err != nil {
		return nil, fmt.Errorf("create addon on %s: %w", app, err)
	}
	addon := payload.toDomain()
	return &addon, nil
}

// ListAddons returns all addons attached to the application.
func (c *Client) ListAddons(ctx context.Context, app string) ([]domain.Addon, error) {
	resp, err := c.request(ctx, http.MethodGet, "/apps/"+app+"/addons", nil)
	if err != nil {
		return nil, err
	}

	var payloads []addonPayload
	if err := parseResponse(resp, &payloads); err != nil {
		return nil, fmt.Errorf("list addons on %s: %w", app, err)
	}

	addons := make([]domain.Addon, 0, len(payloads))
	for _, p := range payloads {
		addons = append(addons, p.toDomain())
	}
	return addons, nil
}

// DeleteAddon destroys an addon by name.
func (c *Client) DeleteAddon(ctx context.Context, app, addonName string) error {
	resp, err := c.request(ctx, http.MethodDelete, "/apps/"+app+"/addons/"+addonName, nil)
	if err != nil {
		return err
	}

	if err := parseResponse(resp, nil); err != nil {
		return fmt.Errorf("delete addon %s on %s: %w", addonName, app, err)
	}
	return nil
}

// request performs an HTTP request against the platform API.
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

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
		var errResp struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, errResp.Message)
		}
		return fmt.Errorf("%s: %s", resp.Status, string(body))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
