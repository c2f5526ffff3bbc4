package testlogs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UploadResponse is the serve-mode reply to POST /logs.
type UploadResponse struct {
	LogID     string `json:"log_id"`
	Duplicate bool   `json:"duplicate"`
	Players   int    `json:"players"`
	Events    int    `json:"events"`
}

// Leader is one leaderboard row.
type Leader struct {
	Rank       int     `json:"rank"`
	StableID   string  `json:"stable_id"`
	Name       string  `json:"name"`
	TotalScore float64 `json:"total_score"`
	Noteworthy int     `json:"noteworthy"`
}

type leaderboardResponse struct {
	LogID   string   `json:"log_id"`
	Entries []Leader `json:"entries"`
}

// HTTPClient wraps http.Client for the serve-mode API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "text/plain")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Health checks GET /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Upload posts a raw log body.
func (c *HTTPClient) Upload(ctx context.Context, body []byte) (*UploadResponse, error) {
	var out UploadResponse
	if err := c.do(ctx, http.MethodPost, "/logs", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard fetches the top n summaries of a log.
func (c *HTTPClient) Leaderboard(ctx context.Context, logID string, n int) ([]Leader, error) {
	var out leaderboardResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/logs/%s/leaderboard?limit=%d", logID, n), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}
