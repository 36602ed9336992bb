package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned by a Fetcher when the named resource does not exist
var ErrNotFound = errors.New("resource not found")

const fetchTimeout = 10 * time.Second

// Fetcher reads named content resources (metadata, manifests, word lists)
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// NewFetcher picks an HTTP fetcher for http(s) locations and a directory
// fetcher for everything else
func NewFetcher(location string) Fetcher {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPFetcher(location)
	}
	return DirFetcher{Root: location}
}

// DirFetcher reads resources from a local directory
type DirFetcher struct {
	Root string
}

func (f DirFetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: invalid path %q", ErrNotFound, name)
	}
	data, err := os.ReadFile(filepath.Join(f.Root, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// HTTPFetcher reads resources relative to a base URL
type HTTPFetcher struct {
	base   string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given base URL
func NewHTTPFetcher(base string) *HTTPFetcher {
	return &HTTPFetcher{
		base:   base,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	fullURL, err := url.JoinPath(f.base, name)
	if err != nil {
		return nil, fmt.Errorf("invalid resource url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code fetching %s: %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
