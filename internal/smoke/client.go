package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// client wraps http.Client with the server base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// get issues a GET; header is a flat list of name, value pairs.
func (c *client) get(ctx context.Context, path string, header ...string) (response, error) {
	return c.do(ctx, http.MethodGet, path, header...)
}

func (c *client) post(ctx context.Context, path string) (response, error) {
	return c.do(ctx, http.MethodPost, path)
}

func (c *client) do(ctx context.Context, method, path string, header ...string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read %s: %w", path, err)
	}
	return response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}
