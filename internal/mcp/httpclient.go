package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/prtrack/internal/models"
)

// HTTPClient implements DataSource by calling the PRTrack REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The
// API key is only needed for write calls.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("httpclient: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) GetProgramExercises(ctx context.Context, userID string) ([]string, error) {
	body, err := c.get(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/program", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Exercises []string `json:"exercises"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode program: %w", err)
	}
	return resp.Exercises, nil
}

func (c *HTTPClient) RecentPRs(ctx context.Context, userID string, limit int) ([]models.PRRow, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/prs", params)
	if err != nil {
		return nil, err
	}

	var rows []models.PRRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode recent prs: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) BestE1RMs(ctx context.Context, userID string) ([]models.BestE1RM, error) {
	body, err := c.get(ctx, "/api/v1/users/"+url.PathEscape(userID)+"/prs/best", nil)
	if err != nil {
		return nil, err
	}

	var best []models.BestE1RM
	if err := json.Unmarshal(body, &best); err != nil {
		return nil, fmt.Errorf("httpclient: decode best e1rms: %w", err)
	}
	return best, nil
}

func (c *HTTPClient) InsertPRs(ctx context.Context, rows []models.PRRow) (int64, error) {
	body, err := c.post(ctx, "/api/v1/prs", map[string]any{"prs": rows})
	if err != nil {
		return 0, err
	}

	var resp struct {
		Inserted int64 `json:"inserted"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("httpclient: decode insert response: %w", err)
	}
	return resp.Inserted, nil
}
