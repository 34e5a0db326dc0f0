// internal/offline/fetcher.go
package offline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HandlerFetcher treats an in-process http.Handler as the origin. A
// panicking or 5xx origin counts as a network failure so the caller
// falls back to cached content.
type HandlerFetcher struct {
	Handler http.Handler
}

func (f HandlerFetcher) Fetch(ctx context.Context, path string) (resp Response, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("origin panicked serving %s: %v", path, recovered)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Response{}, err
	}

	rec := &responseRecorder{header: make(http.Header), status: http.StatusOK}
	f.Handler.ServeHTTP(rec, req)

	if rec.status >= http.StatusInternalServerError {
		return Response{}, fmt.Errorf("origin returned %d for %s", rec.status, path)
	}
	return Response{
		Status:      rec.status,
		ContentType: rec.header.Get("Content-Type"),
		Body:        rec.body.Bytes(),
	}, nil
}

type responseRecorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func (r *responseRecorder) Header() http.Header { return r.header }

func (r *responseRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	r.wroteHeader = true
	return r.body.Write(data)
}

// HTTPFetcher retrieves assets from a remote origin over HTTP, for
// deployments where the content lives behind another server.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, path string) (Response, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	target, err := url.JoinPath(strings.TrimSuffix(f.BaseURL, "/"), path)
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Response{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
