// Package remote reads and writes map overlays, either from a local public
// directory or through the overlay server.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phanxgames/mapkit/internal/server"
)

// Source loads and saves the highlight markup and the marker listing.
type Source interface {
	Load(ctx context.Context) (highlights string, markers []byte, err error)
	Save(ctx context.Context, highlights string, markers []byte) error
}

// Dir is a Source reading a public directory directly. A missing file loads
// as empty.
type Dir string

// Load reads both overlay files.
func (d Dir) Load(context.Context) (string, []byte, error) {
	hl, err := readOptional(filepath.Join(string(d), server.HighlightsFile))
	if err != nil {
		return "", nil, err
	}
	mk, err := readOptional(filepath.Join(string(d), server.MarkersFile))
	if err != nil {
		return "", nil, err
	}
	return string(hl), mk, nil
}

// Save writes both overlay files.
func (d Dir) Save(_ context.Context, highlights string, markers []byte) error {
	if err := os.MkdirAll(string(d), 0755); err != nil {
		return fmt.Errorf("create %s: %w", d, err)
	}
	if err := os.WriteFile(filepath.Join(string(d), server.HighlightsFile), []byte(highlights), 0644); err != nil {
		return fmt.Errorf("write highlights: %w", err)
	}
	if err := os.WriteFile(filepath.Join(string(d), server.MarkersFile), markers, 0644); err != nil {
		return fmt.Errorf("write markers: %w", err)
	}
	return nil
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// Client is a Source talking to the overlay server at BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Load fetches both overlay files. A 404 loads as empty.
func (c *Client) Load(ctx context.Context) (string, []byte, error) {
	hl, err := c.get(ctx, server.HighlightsFile)
	if err != nil {
		return "", nil, err
	}
	mk, err := c.get(ctx, server.MarkersFile)
	if err != nil {
		return "", nil, err
	}
	return string(hl), mk, nil
}

// Save posts both overlays to the server's write endpoints.
func (c *Client) Save(ctx context.Context, highlights string, markers []byte) error {
	if err := c.post(ctx, "/write/highlights", "image/svg+xml", []byte(highlights)); err != nil {
		return err
	}
	return c.post(ctx, "/write/markers", "application/json", markers)
}

func (c *Client) get(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", name, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: %s: %s", path, resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

// Open returns a Client when location is an http(s) URL and a Dir
// otherwise.
func Open(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewClient(location)
	}
	return Dir(location)
}
