package document

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Loader produces documents for locators that are not yet in a Store.
// Loading is the caller's concern; the Store only asks for a document the
// first time a reference crosses into it.
type Loader interface {
	Load(locator string) (*Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(locator string) (*Document, error)

// Load implements Loader.
func (f LoaderFunc) Load(locator string) (*Document, error) {
	return f(locator)
}

// HTTPFetcher is a function type for fetching content from HTTP/HTTPS URLs.
// Returns the response body, content-type header, and any error.
type HTTPFetcher func(url string) ([]byte, string, error)

// FileLoader loads documents from the local filesystem.
// Locators may be plain paths or file:// URLs. Paths must stay within BaseDir.
type FileLoader struct {
	// BaseDir is the directory relative locators are resolved against and
	// that every loaded file must live under.
	BaseDir string
	// MaxFileSize overrides the package MaxFileSize when positive.
	MaxFileSize int64
}

// Load implements Loader.
func (l *FileLoader) Load(locator string) (*Document, error) {
	filePath := locator
	if u, err := url.Parse(locator); err == nil && u.Scheme == "file" {
		filePath = u.Path
	}
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(l.BaseDir, filePath)
	}
	filePath = filepath.Clean(filePath)

	absBase, err := filepath.Abs(l.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file path: %w", err)
	}
	relPath, err := filepath.Rel(absBase, absPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return nil, fmt.Errorf("path traversal detected: %s is outside %s", locator, l.BaseDir)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", absPath, err)
	}
	if limit := l.limit(); int64(len(data)) > limit {
		return nil, fmt.Errorf("file %s exceeds maximum size limit (%d bytes): file is %d bytes",
			absPath, limit, len(data))
	}
	return Parse(locator, data)
}

func (l *FileLoader) limit() int64 {
	if l.MaxFileSize > 0 {
		return l.MaxFileSize
	}
	return MaxFileSize
}

// FetchLoader loads documents over HTTP through an HTTPFetcher.
type FetchLoader struct {
	Fetch       HTTPFetcher
	MaxFileSize int64
}

// Load implements Loader.
func (l *FetchLoader) Load(locator string) (*Document, error) {
	if l.Fetch == nil {
		return nil, fmt.Errorf("HTTP locators require a fetcher to be configured: %s", locator)
	}
	data, _, err := l.Fetch(locator)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", locator, err)
	}
	limit := l.MaxFileSize
	if limit <= 0 {
		limit = MaxFileSize
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response from %s exceeds maximum size limit (%d bytes): response is %d bytes",
			locator, limit, len(data))
	}
	return Parse(locator, data)
}

// MapLoader serves documents from an in-memory map of locator to raw bytes.
// It is mostly useful for tests and for embedding documents in binaries.
type MapLoader map[string][]byte

// Load implements Loader.
func (m MapLoader) Load(locator string) (*Document, error) {
	data, ok := m[locator]
	if !ok {
		return nil, fmt.Errorf("no document registered for %s", locator)
	}
	return Parse(locator, data)
}
