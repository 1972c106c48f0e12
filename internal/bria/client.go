// Package bria is a client for the Bria background-removal API.
// It replaces the curl+jq plumbing of the original shell aliases: upload
// an image (or pass a URL), receive a result_url, download the result.
package bria

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultEndpoint is the Bria background-removal endpoint.
const DefaultEndpoint = "https://engine.prod.bria-api.com/v1/background/remove"

// Client calls the Bria API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint (used in tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a client with the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		token:    token,
		http:     &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the documented success payload.
type apiResponse struct {
	ResultURL string `json:"result_url"`
}

// RemoveFromURL submits an image URL and returns the processed image URL.
func (c *Client) RemoveFromURL(ctx context.Context, imageURL string) (string, error) {
	form := url.Values{"image_url": {imageURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("api_token", c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// RemoveFromFile uploads a local image and returns the processed image URL.
func (c *Client) RemoveFromFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body strings.Builder
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body.String()))
	if err != nil {
		return "", err
	}
	req.Header.Set("api_token", c.token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bria api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("bria api returned invalid JSON: %w", err)
	}
	if result.ResultURL == "" {
		return "", fmt.Errorf("bria api response missing result_url: %s", strings.TrimSpace(string(body)))
	}
	return result.ResultURL, nil
}

// Download fetches url into dest. Returns (true, nil) when dest already
// exists and overwrite is false.
func (c *Client) Download(ctx context.Context, srcURL, dest string, overwrite bool) (skipped bool, err error) {
	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return true, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, srcURL)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, err
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return false, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return false, err
	}
	return false, os.Rename(tmp, dest)
}
