// Package hosted uploads registration media to an external media-hosting API
// and returns the durable secure URL the service assigns.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"regdesk/internal/media"
)

// HTTPDoer abstracts the HTTP client so tests can inject transports.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the media-hosting upload endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client, mainly for tests.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// New constructs a hosted media client.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// uploadResponse is the subset of the hosting API response we rely on.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (c *Client) Save(ctx context.Context, kind media.Kind, file *media.File) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is required")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("kind", string(kind)); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Filename))
	header.Set("Content-Type", file.ContentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return "", fmt.Errorf("copy upload body: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/upload", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload %s: unexpected status %d", kind, resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("upload %s: response missing secure_url", kind)
	}
	return parsed.SecureURL, nil
}
