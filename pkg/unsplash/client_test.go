package unsplash

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDir = "/cache"

func newTestClient(t *testing.T, srv *httptest.Server) (*Client, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	c := NewClient(
		WithHTTPClient(srv.Client()),
		WithFs(fs),
		WithDir(testDir),
		WithBaseURL(srv.URL),
	)
	return c, fs
}

func TestFetch_WritesBodyToUniqueFile(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	c, fs := newTestClient(t, srv)
	req := FetchRequest{Size: NewSize(800, 600), CollectionID: "nature", SearchQuery: "cats"}

	first, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "/collection/nature/800x600/", gotPath)
	assert.Equal(t, "cats", gotQuery)

	assert.Equal(t, testDir, filepath.Dir(first.Path))
	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, int64(len("jpeg-bytes")), first.Bytes)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	data, err := afero.ReadFile(fs, first.Path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/random/1024x768/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/photo-123", http.StatusFound)
	})
	mux.HandleFunc("/photo-123", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("redirected"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, fs := newTestClient(t, srv)
	asset, err := c.Fetch(context.Background(), FetchRequest{Size: NewSize(1024, 768)})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, asset.Path)
	require.NoError(t, err)
	assert.Equal(t, "redirected", string(data))
}

func TestFetch_NonSuccessStatusWithBodyIsAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	asset, err := c.Fetch(context.Background(), FetchRequest{Size: NewSize(10, 10)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, asset.StatusCode)
	assert.NotEmpty(t, asset.Path)
}

func TestFetch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, fs := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), FetchRequest{Size: NewSize(10, 10)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyBody))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.URL, "/random/10x10/")

	entries, err := afero.ReadDir(fs, testDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "empty download must not leave a file behind")
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, _ := newTestClient(t, srv)
	srv.Close()

	_, err := c.Fetch(context.Background(), FetchRequest{Size: NewSize(10, 10)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, errors.Is(err, ErrFileWrite))
}

func TestFetch_TruncatedBodyIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte("short"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), FetchRequest{Size: NewSize(10, 10)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestFetch_FileWriteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	c := NewClient(
		WithHTTPClient(srv.Client()),
		WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())),
		WithDir(testDir),
		WithBaseURL(srv.URL),
	)
	_, err := c.Fetch(context.Background(), FetchRequest{Size: NewSize(10, 10)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileWrite))
}

func TestFetchAsync_DeliversOneResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("async"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	req := FetchRequest{Size: NewSize(640, 480), SearchQuery: "dogs"}

	select {
	case res := <-c.FetchAsync(context.Background(), req):
		require.NoError(t, res.Err)
		assert.Equal(t, req, res.Request)
		assert.Equal(t, int64(5), res.Asset.Bytes)
	case <-time.After(5 * time.Second):
		t.Fatal("FetchAsync did not complete")
	}
}

func TestClient_Defaults(t *testing.T) {
	c := NewClient()
	assert.Equal(t, cacheSubDir, filepath.Base(c.Dir()))
	assert.Equal(t, "https://source.unsplash.com/random/1x1/", c.URL(FetchRequest{Size: NewSize(1, 1)}))
	_, ok := c.httpClient.Transport.(*UserAgentTransport)
	assert.True(t, ok)
}

func TestUserAgentTransport(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := &http.Client{Transport: &UserAgentTransport{UserAgent: "UnsplashedPaper/test"}}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "UnsplashedPaper/test", gotUA)
	assert.Empty(t, req.Header.Get("User-Agent"), "original request must not be modified")
}

func TestFetchError_Message(t *testing.T) {
	err := newFetchError(ErrEmptyBody, "https://x", nil)
	assert.Equal(t, "fetch https://x: empty response body", err.Error())

	cause := errors.New("boom")
	err = newFetchError(ErrNetwork, "https://x", cause)
	assert.Equal(t, "fetch https://x: network failure: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
