package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDownloadSize caps any single HTTP download.
const maxDownloadSize = 512 << 20

// HTTPSource fetches artifacts over http(s). Each fetch is a single attempt.
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource creates an HTTP source with a tuned transport.
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return NewHTTPSourceWithClient(&http.Client{
		Transport: transport,
		Timeout:   timeout,

		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("too many redirects (limit: 3)")
			}
			return nil
		},
	})
}

// NewHTTPSourceWithClient uses the given client as is.
func NewHTTPSourceWithClient(client *http.Client) *HTTPSource {
	return &HTTPSource{client: client}
}

func (h *HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", "go-teeth-classifier/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status code %d", location, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", location, err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", location, maxDownloadSize)
	}
	return data, nil
}

var _ ArtifactSource = (*HTTPSource)(nil)
