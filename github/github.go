// Package github fetches small text files from GitHub repositories through the contents API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultMaxSize is the largest file fetched in bytes. Star files are only a few hundred bytes.
const DefaultMaxSize = 1024

// DefaultUserAgent is sent with every request, GitHub rejects requests without one.
const DefaultUserAgent = "AOC-Stars-Generator/0.1.0"

// ErrNotFound is returned when the repository, branch, or file does not exist.
var ErrNotFound = errors.New("not found")

// TooLargeError is returned when a file exceeds the maximum size.
type TooLargeError struct {
	Size, Max int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes", e.Size, e.Max)
}

// StatusError is returned for unexpected HTTP status codes.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Ref names a file in a repository.
type Ref struct {
	User, Repo, Branch, Path string
}

func (ref Ref) String() string {
	return ref.User + "/" + ref.Repo + "/" + ref.Branch + "/" + ref.Path
}

// Metadata is the subset of the contents API response that is used.
type Metadata struct {
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// Client fetches files from GitHub. The zero value is usable.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	Token     string // optional personal access token, raises the API rate limit
	UserAgent string
	MaxSize   int64
	Logger    *zap.Logger
}

// NewClient returns a client with the given token and request timeout.
func NewClient(token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   DefaultBaseURL,
		Token:     token,
		UserAgent: DefaultUserAgent,
		MaxSize:   DefaultMaxSize,
		Logger:    logger,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) maxSize() int64 {
	if c.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return c.MaxSize
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	if remaining, limit := resp.Header.Get("X-Ratelimit-Remaining"), resp.Header.Get("X-Ratelimit-Limit"); remaining != "" && limit != "" {
		c.logger().Debug("GitHub API rate limit", zap.String("remaining", remaining), zap.String("limit", limit))
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	} else if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		resp.Body.Close()
		return nil, &StatusError{rawURL, resp.StatusCode}
	}
	return resp, nil
}

// Metadata returns the size and download URL of a file.
func (c *Client) Metadata(ctx context.Context, ref Ref) (Metadata, error) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	segments := strings.Split(strings.Trim(ref.Path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	apiURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", strings.TrimSuffix(baseURL, "/"),
		url.PathEscape(ref.User), url.PathEscape(ref.Repo), strings.Join(segments, "/"), url.QueryEscape(ref.Branch))

	resp, err := c.get(ctx, apiURL)
	if err != nil {
		return Metadata{}, err
	}
	defer resp.Body.Close()

	var metadata Metadata
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	} else if metadata.DownloadURL == "" {
		// directories and submodules have no download URL
		return Metadata{}, fmt.Errorf("%w: %s is not a file", ErrNotFound, ref.Path)
	}
	return metadata, nil
}

// Fetch returns the contents of a file, files larger than MaxSize are refused before downloading.
func (c *Client) Fetch(ctx context.Context, ref Ref) ([]byte, error) {
	metadata, err := c.Metadata(ctx, ref)
	if err != nil {
		return nil, err
	}
	maxSize := c.maxSize()
	if maxSize < metadata.Size {
		return nil, &TooLargeError{metadata.Size, maxSize}
	}

	resp, err := c.get(ctx, metadata.DownloadURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	} else if maxSize < int64(len(b)) {
		return nil, &TooLargeError{int64(len(b)), maxSize}
	}
	return b, nil
}
