package entsoe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"

// compactLayout is the periodStart/periodEnd query format of the API.
const compactLayout = "200601021504"

// Client issues raw requests against the Transparency Platform API. It does
// not retry: a failed request is a failed fetch step for that one day, and
// the caller carries on with the remaining steps.
type Client struct {
	baseURL string
	token   string
	logger  *slog.Logger
	http    *http.Client
}

func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		logger:  logger,
		http:    &http.Client{},
	}
}

// Get performs one API request and returns the raw body plus the declared
// content type. The timeout is per dataset (60-90s); it bounds this single
// request only.
func (c *Client) Get(ctx context.Context, params url.Values, timeout time.Duration) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params.Set("securityToken", c.token)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch from transparency platform: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bodyExcerpt(body))
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// bodyExcerpt trims an error body for logging, the platform returns long
// acknowledgement documents on failures.
func bodyExcerpt(body []byte) string {
	const limit = 250
	s := DecodeText(body)
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}

// CompactPeriod renders an instant in the API's compact UTC timestamp
// format.
func CompactPeriod(t time.Time) string {
	return t.UTC().Format(compactLayout)
}
