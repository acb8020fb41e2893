package octopusenergy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// cachedResponse holds the response fields worth replaying, in a simple
// JSON format.
type cachedResponse struct {
	Status     string              `json:"status"`
	StatusCode int                 `json:"status_code"`
	Proto      string              `json:"proto"`
	Header     map[string][]string `json:"header"`
	Body       []byte              `json:"body"`
}

// CachingRoundTripper is an http.RoundTripper that stores responses on
// disk keyed by method, URL and request body. Rates and consumption for
// past periods never change, so replaying cached responses avoids
// re-fetching history on every run.
type CachingRoundTripper struct {
	// Transport is used on a cache miss. If nil, http.DefaultTransport
	// is used.
	Transport http.RoundTripper

	// Dir is the directory where response files are stored.
	Dir string
}

func (c *CachingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := c.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	// Consume the request body for hashing, then restore it for the
	// underlying transport.
	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	path := c.entryPath(req.Method, req.URL.String(), reqBody)
	if cached, err := loadCachedResponse(path); err == nil {
		return cached.response(req), nil
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	entry := cachedResponse{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header.Clone(),
		Body:       respBody,
	}
	if err := entry.save(path); err != nil {
		return nil, err
	}

	return entry.response(req), nil
}

// entryPath keys cache files by a SHA-256 of method, URL and request body;
// headers are deliberately ignored.
func (c *CachingRoundTripper) entryPath(method, url string, body []byte) string {
	hash := sha256.New()
	hash.Write([]byte(method))
	hash.Write([]byte(url))
	hash.Write(body)
	return filepath.Join(c.Dir, hex.EncodeToString(hash.Sum(nil))+".json")
}

func loadCachedResponse(path string) (*cachedResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entry cachedResponse
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (e *cachedResponse) save(path string) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (e *cachedResponse) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        e.Status,
		StatusCode:    e.StatusCode,
		Proto:         e.Proto,
		Header:        e.Header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
