// Package calendar is a thin client for the target system's event calendar
// API, the source of truth for pre-existing events.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

const defaultTimeout = 10 * time.Second

// Client queries the target calendar over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new calendar client. token is sent as a bearer token
// on every request.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type eventsResponse struct {
	Events []models.CalendarEvent `json:"events"`
}

// ListEvents fetches the sport's events starting within [from, to].
// Transport failures, timeouts, and server errors all surface as
// models.ErrUpstreamUnavailable so callers can fail open.
func (c *Client) ListEvents(ctx context.Context, sport string, from, to time.Time) ([]models.CalendarEvent, error) {
	params := url.Values{}
	params.Set("sport", sport)
	params.Set("start_time_min", from.UTC().Format(time.RFC3339))
	params.Set("start_time_max", to.UTC().Format(time.RFC3339))

	var response eventsResponse
	if err := c.get(ctx, "/api/v1/events", params, &response); err != nil {
		return nil, err
	}
	return response.Events, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request: %v: %w", err, models.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("calendar api error %d: %s: %w", resp.StatusCode, string(body), models.ErrUpstreamUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode calendar response: %w", err)
	}

	return nil
}
