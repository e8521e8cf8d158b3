package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	u "hellopage/internal/utils"
)

// Client fetches the plain-text message from the backend origin.
type Client struct {
	URL          string
	Timeout      time.Duration
	MaxBodyBytes int64
	HTTP         *http.Client
}

// NewClient builds a Client for cfg.Origin + cfg.Path.
func NewClient(cfg u.BackendConfig) *Client {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Client{
		URL:          strings.TrimRight(cfg.Origin, "/") + path,
		Timeout:      cfg.Timeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
		HTTP:         &http.Client{},
	}
}

// FetchText performs a single GET and returns the body as text. Nothing is
// cached; every call goes to the network.
func (c *Client) FetchText(ctx context.Context) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", u.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", fmt.Errorf("%w: %d", u.ErrBackendStatus, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if c.MaxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, c.MaxBodyBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", u.ErrBackendUnavailable, err)
	}
	if c.MaxBodyBytes > 0 && int64(len(data)) > c.MaxBodyBytes {
		return "", fmt.Errorf("%w: limit %d bytes", u.ErrBackendBodyTooLarge, c.MaxBodyBytes)
	}

	return string(data), nil
}
