package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// CachedImage is one downloaded asset.
type CachedImage struct {
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

func baseName(path string) string {
	return filepath.Base(path)
}

// resolveAssetPath joins name onto the cache root and enforces that the
// result is a direct child of the root.
func (s *Server) resolveAssetPath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid asset name")
	}

	root := filepath.Clean(s.cacheDir)
	full := filepath.Clean(filepath.Join(root, name))

	prefix := root
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	if !strings.HasPrefix(full, prefix) {
		return "", fmt.Errorf("path traversal detected")
	}
	return full, nil
}

// handleCacheListing lists cached assets, newest first.
// Query: ?page=1&per_page=24
func (s *Server) handleCacheListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cacheFs == nil {
		http.Error(w, "Cache not available", http.StatusServiceUnavailable)
		return
	}

	page := 1
	perPage := 24
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if pp, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && pp > 0 {
		perPage = pp
	}

	entries, err := afero.ReadDir(s.cacheFs, s.cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, []CachedImage{})
			return
		}
		http.Error(w, "Failed to read cache", http.StatusInternalServerError)
		return
	}

	var files []os.FileInfo
	for _, e := range entries {
		if e.Mode().IsRegular() {
			files = append(files, e)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime().Equal(files[j].ModTime()) {
			return files[i].Name() < files[j].Name()
		}
		return files[i].ModTime().After(files[j].ModTime())
	})

	start := min((page-1)*perPage, len(files))
	end := min(start+perPage, len(files))

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	result := make([]CachedImage, 0, end-start)
	for _, f := range files[start:end] {
		result = append(result, CachedImage{
			Name:     f.Name(),
			URL:      fmt.Sprintf("%s://%s/cache/%s", scheme, r.Host, f.Name()),
			Size:     f.Size(),
			Modified: f.ModTime(),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCacheAsset serves one cached asset by name.
func (s *Server) handleCacheAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cacheFs == nil {
		http.Error(w, "Cache not available", http.StatusServiceUnavailable)
		return
	}

	path, err := s.resolveAssetPath(r.PathValue("name"))
	if err != nil {
		http.Error(w, "Invalid asset name", http.StatusBadRequest)
		return
	}

	f, err := s.cacheFs.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
