// Package unsplash downloads random images from the Unsplash source endpoint
// into a local cache directory.
package unsplash

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Asset is a downloaded image on local storage. The client never deletes it.
type Asset struct {
	Path       string
	StatusCode int
	Bytes      int64
}

// FetchResult is the completion value of FetchAsync.
type FetchResult struct {
	Request FetchRequest
	Asset   Asset
	Err     error
}

// Client fetches images and stores them under Dir().
type Client struct {
	httpClient *http.Client
	fs         afero.Fs
	dir        string
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. It must follow redirects.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFs replaces the file system assets are written to.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) { c.fs = fs }
}

// WithDir sets the directory assets are written to.
func WithDir(dir string) Option {
	return func(c *Client) { c.dir = dir }
}

// WithBaseURL points the client at another host with the same path layout.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// NewClient creates a client that writes to <tempdir>/UnsplashedPaper on the OS file system.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			// No Timeout: a stalled download only stalls its own display.
			Transport: &UserAgentTransport{
				RoundTripper: http.DefaultTransport,
				UserAgent:    config.UserAgent(),
			},
		},
		fs:      afero.NewOsFs(),
		dir:     filepath.Join(os.TempDir(), cacheSubDir),
		baseURL: BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the directory downloaded assets are written to.
func (c *Client) Dir() string {
	return c.dir
}

// Fs returns the file system assets are written to.
func (c *Client) Fs() afero.Fs {
	return c.fs
}

// URL returns the URL Fetch would request for req.
func (c *Client) URL(req FetchRequest) string {
	return req.urlWithBase(c.baseURL)
}

// Fetch downloads one image for req and streams it to a new uniquely named
// file. Any response that carries a body is accepted; the HTTP status is only
// logged. There is no retry.
func (c *Client) Fetch(ctx context.Context, req FetchRequest) (Asset, error) {
	target := c.URL(req)
	log.Printf("[Fetch] Downloading image from: %s", target)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Asset{}, newFetchError(ErrNetwork, target, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Asset{}, newFetchError(ErrNetwork, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[Fetch] Unexpected status %d from %s, keeping body anyway", resp.StatusCode, target)
	} else {
		log.Debugf("[Fetch] Status %d from %s", resp.StatusCode, target)
	}

	if err := c.fs.MkdirAll(c.dir, 0755); err != nil {
		return Asset{}, newFetchError(ErrFileWrite, target, err)
	}

	path := filepath.Join(c.dir, uuid.NewString())
	file, err := c.fs.Create(path)
	if err != nil {
		return Asset{}, newFetchError(ErrFileWrite, target, err)
	}

	body := &readErrRecorder{r: resp.Body}
	n, copyErr := io.Copy(file, body)
	closeErr := file.Close()

	switch {
	case body.err != nil:
		c.discard(path)
		return Asset{}, newFetchError(ErrNetwork, target, body.err)
	case copyErr != nil:
		c.discard(path)
		return Asset{}, newFetchError(ErrFileWrite, target, copyErr)
	case closeErr != nil:
		c.discard(path)
		return Asset{}, newFetchError(ErrFileWrite, target, closeErr)
	case n == 0:
		c.discard(path)
		return Asset{}, newFetchError(ErrEmptyBody, target, nil)
	}

	log.Printf("[Fetch] Saved %d bytes to %s", n, path)
	return Asset{Path: path, StatusCode: resp.StatusCode, Bytes: n}, nil
}

// FetchAsync runs Fetch on its own goroutine. The returned channel receives
// exactly one result.
func (c *Client) FetchAsync(ctx context.Context, req FetchRequest) <-chan FetchResult {
	done := make(chan FetchResult, 1)
	go func() {
		asset, err := c.Fetch(ctx, req)
		done <- FetchResult{Request: req, Asset: asset, Err: err}
	}()
	return done
}

// discard removes a partial file that never became an asset.
func (c *Client) discard(path string) {
	if err := c.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Debugf("[Fetch] Could not remove partial file %s: %v", path, err)
	}
}

// readErrRecorder remembers the first non-EOF read error so a failed
// transfer can be told apart from a failed write.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (r *readErrRecorder) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && err != io.EOF && r.err == nil {
		r.err = err
	}
	return n, err
}
