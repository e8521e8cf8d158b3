package page

import (
	"bytes"
	"context"
	"net/http"

	u "hellopage/internal/utils"
)

// Fetcher returns the message shown on the page.
type Fetcher interface {
	FetchText(ctx context.Context) (string, error)
}

// Renderer produces the hello page from a single backend fetch.
type Renderer struct {
	fetcher Fetcher
	title   string
	heading string
}

func NewRenderer(fetcher Fetcher, cfg u.PageConfig) *Renderer {
	return &Renderer{
		fetcher: fetcher,
		title:   cfg.Title,
		heading: cfg.Heading,
	}
}

// Render fetches the message once and embeds it in the page markup.
func (r *Renderer) Render(ctx context.Context) (string, error) {
	message, err := r.fetcher.FetchText(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, map[string]any{
		"Title":   r.title,
		"Heading": r.heading,
		"Message": message,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderError renders the error state shown when the message cannot be loaded.
func (r *Renderer) RenderError(status int, requestID string) (string, error) {
	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, map[string]any{
		"Title":     r.title,
		"Heading":   r.heading,
		"Status":    status,
		"Reason":    http.StatusText(status),
		"RequestID": requestID,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
