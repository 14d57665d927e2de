// Package dom also implements the network collaborator: fetching
// HTML/CSS/image resources from the filesystem, http(s), or data URLs,
// as a thin interface over net/http plus the data: URL helper.
//
// Spec references:
// - HTML5 §2.5 URLs: URL resolution and resource fetching
// - RFC 2397: The "data" URL scheme
package dom

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// userAgent is the fixed desktop browser string sent with every HTTP
// fetch.
const userAgent = "Mozilla/5.0 (compatible; BrowserEngineCore/1.0; +https://example.invalid/browser-engine)"

// fetchTimeout bounds every HTTP request.
const fetchTimeout = 30 * time.Second

// FetchError classifies a network collaborator failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ResourceLoader implements the network collaborator: fetch_text and
// fetch_bytes over http(s), file paths, and data URLs.
type ResourceLoader struct {
	BaseURL string
	client  *http.Client
}

// NewResourceLoader creates a resource loader rooted at baseURL.
func NewResourceLoader(baseURL string) *ResourceLoader {
	return &ResourceLoader{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: fetchTimeout},
	}
}

// FetchBytes implements fetch_bytes(url) -> Bytes | FetchError.
func (rl *ResourceLoader) FetchBytes(path string) ([]byte, error) {
	if isDataURL(path) {
		return loadFromDataURL(path)
	}
	if isURL(path) {
		return rl.loadFromURL(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{URL: path, Err: err}
	}
	return data, nil
}

// FetchText implements fetch_text(url) -> String | FetchError.
func (rl *ResourceLoader) FetchText(path string) (string, error) {
	data, err := rl.FetchBytes(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadResource is a backward-compatible alias for FetchBytes.
func (rl *ResourceLoader) LoadResource(path string) ([]byte, error) { return rl.FetchBytes(path) }

// LoadResourceAsString is a backward-compatible alias for FetchText.
func (rl *ResourceLoader) LoadResourceAsString(path string) (string, error) {
	return rl.FetchText(path)
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func isDataURL(input string) bool {
	return strings.HasPrefix(input, "data:")
}

// loadFromURL performs the HTTP fetch with the fixed User-Agent and
// timeout, failing on any non-2xx status.
func (rl *ResourceLoader) loadFromURL(urlStr string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := rl.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: urlStr, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: err}
	}
	return body, nil
}

// loadFromDataURL decodes a data:[<mediatype>][;base64],<data> URL.
// Non-base64 data URLs are an unsupported-encoding error.
func loadFromDataURL(dataURL string) ([]byte, error) {
	parsed, err := url.Parse(dataURL)
	if err != nil {
		return nil, &FetchError{URL: dataURL, Err: fmt.Errorf("invalid data URL: %w", err)}
	}
	if parsed.Scheme != "data" {
		return nil, &FetchError{URL: dataURL, Err: errors.New("not a data URL")}
	}

	dataStr := parsed.Opaque
	if dataStr == "" {
		dataStr = strings.TrimPrefix(dataURL, "data:")
	}
	commaIdx := strings.Index(dataStr, ",")
	if commaIdx == -1 {
		return nil, &FetchError{URL: dataURL, Err: errors.New("missing comma separator")}
	}

	metadata := dataStr[:commaIdx]
	payload := dataStr[commaIdx+1:]

	if !strings.HasSuffix(metadata, ";base64") {
		return nil, &FetchError{URL: dataURL, Err: errors.New("unsupported data URL encoding: only base64 is supported")}
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &FetchError{URL: dataURL, Err: fmt.Errorf("base64 decode: %w", err)}
	}
	return decoded, nil
}
