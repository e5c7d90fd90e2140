package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meutreino/skill/internal/coach"
)

// HTTPClient implements Dispatcher by calling the MeuTreino REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// sessions live on the remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies Dispatcher and SessionSource.
var (
	_ Dispatcher    = (*HTTPClient)(nil)
	_ SessionSource = (*HTTPClient)(nil)
)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// Dispatch posts the turn to /api/v1/turns/{op}.
func (c *HTTPClient) Dispatch(ctx context.Context, op coach.Operation, req coach.Request) (coach.Prompt, error) {
	path := "/api/v1/turns/" + url.PathEscape(string(op))
	status, body, err := c.do(ctx, http.MethodPost, path, req)
	if err != nil {
		return coach.Prompt{}, err
	}
	switch {
	case status == http.StatusNotFound:
		return coach.Prompt{}, fmt.Errorf("%w: %q", coach.ErrUnknownOperation, op)
	case status != http.StatusOK:
		return coach.Prompt{}, fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}

	var prompt coach.Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		return coach.Prompt{}, fmt.Errorf("httpclient: decode prompt: %w", err)
	}
	return prompt, nil
}

// Session fetches /api/v1/sessions/{userID} as raw JSON.
func (c *HTTPClient) Session(ctx context.Context, userID string) (json.RawMessage, error) {
	path := "/api/v1/sessions/" + url.PathEscape(userID)
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
	return json.RawMessage(body), nil
}
