package agentreport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ImageResult carries a resolved image as a source usable in an <img>
// tag: either a data URI or a plain URL.
type ImageResult struct {
	Source string
}

// ImageSearcher resolves an image description to an image. The resolver
// calls Search exactly once per placeholder id, from its own goroutine,
// so implementations never need to worry about synchronous callbacks.
type ImageSearcher interface {
	Search(ctx context.Context, description string) (ImageResult, error)
}

// ImageSearcherFunc adapts a function to the ImageSearcher interface.
type ImageSearcherFunc func(ctx context.Context, description string) (ImageResult, error)

// Search calls f.
func (f ImageSearcherFunc) Search(ctx context.Context, description string) (ImageResult, error) {
	return f(ctx, description)
}

// defaultSearchTimeout bounds a single HTTP image search.
const defaultSearchTimeout = 20 * time.Second

// HTTPImageSearcher queries an image-search endpoint speaking the
// collaborator protocol: POST {"description": ...} returning
// {"success": bool, "imageData": ..., "error": ...}.
type HTTPImageSearcher struct {
	endpoint string
	client   *http.Client
}

// HTTPImageSearcherOption configures an HTTPImageSearcher.
type HTTPImageSearcherOption func(*HTTPImageSearcher)

// WithHTTPClient overrides the default HTTP client (e.g., for tests or
// custom transports).
func WithHTTPClient(c *http.Client) HTTPImageSearcherOption {
	return func(s *HTTPImageSearcher) {
		s.client = c
	}
}

// NewHTTPImageSearcher creates a searcher for the given endpoint URL.
func NewHTTPImageSearcher(endpoint string, opts ...HTTPImageSearcherOption) *HTTPImageSearcher {
	s := &HTTPImageSearcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultSearchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// searchRequest is the collaborator wire request.
type searchRequest struct {
	Description string `json:"description"`
}

// searchResponse is the collaborator wire response.
type searchResponse struct {
	Success   bool   `json:"success"`
	ImageData string `json:"imageData"`
	Error     string `json:"error"`
}

// Search performs one image lookup.
func (s *HTTPImageSearcher) Search(ctx context.Context, description string) (ImageResult, error) {
	body, err := json.Marshal(searchRequest{Description: description})
	if err != nil {
		return ImageResult{}, fmt.Errorf("%w: %v", ErrImageSearch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return ImageResult{}, fmt.Errorf("%w: %v", ErrImageSearch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return ImageResult{}, fmt.Errorf("%w: %v", ErrImageSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ImageResult{}, fmt.Errorf("%w: %s", ErrImageSearchStatus, resp.Status)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ImageResult{}, fmt.Errorf("%w: %v", ErrImageSearch, err)
	}
	if !payload.Success {
		return ImageResult{}, fmt.Errorf("%w: %s", ErrImageSearch, payload.Error)
	}
	return ImageResult{Source: payload.ImageData}, nil
}
