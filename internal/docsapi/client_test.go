package docsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"docsearch/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	EscapedPath string
	Query       url.Values
	Header      http.Header
	Body        []byte
}

type backend struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (b *backend) recorded() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func newBackend(t *testing.T, status int, payload string) (*httptest.Server, *backend) {
	t.Helper()

	rec := &backend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method:      r.Method,
			EscapedPath: r.URL.EscapedPath(),
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
			Body:        body,
		})
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(baseURL, opts...)
	require.NoError(t, err)
	return client
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestNewClient_RejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "localhost:5000/api", "/relative"} {
		_, err := NewClient(raw)
		assert.Error(t, err, "base url %q", raw)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := newTestClient(t, "http://localhost:5000/")
	assert.Equal(t, "http://localhost:5000", client.BaseURL())
}

func TestListDocuments(t *testing.T) {
	payload := `{
		"documents": [{"id": "1822/100", "title": "Tese", "authors": ["Silva, Ana"], "keywords": ["ir"]}],
		"page": 2,
		"per_page": 5,
		"total": 11,
		"total_pages": 3
	}`
	srv, requests := newBackend(t, http.StatusOK, payload)
	client := newTestClient(t, srv.URL)

	page, err := client.ListDocuments(context.Background(), 2, 5)
	require.NoError(t, err)

	require.Len(t, requests.recorded(), 1)
	req := requests.recorded()[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/documents", req.EscapedPath)
	assert.Equal(t, "2", req.Query.Get("page"))
	assert.Equal(t, "5", req.Query.Get("per_page"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.NotEmpty(t, req.Header.Get(RequestIDHeader))

	var expected DocumentPage
	require.NoError(t, json.Unmarshal([]byte(payload), &expected))
	assert.Equal(t, &expected, page)
}

func TestListDocuments_Defaults(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, `{"documents": [], "page": 1, "per_page": 10, "total": 0, "total_pages": 0}`)
	client := newTestClient(t, srv.URL)

	_, err := client.ListDocuments(context.Background(), 0, -3)
	require.NoError(t, err)

	req := requests.recorded()[0]
	assert.Equal(t, "1", req.Query.Get("page"))
	assert.Equal(t, "10", req.Query.Get("per_page"))
}

func TestGetDocument_EscapesIdentifier(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{id: "abc def", expected: "/api/document/abc%20def"},
		{id: "1822/54321", expected: "/api/document/1822%2F54321"},
		{id: "a?b#c", expected: "/api/document/a%3Fb%23c"},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			srv, requests := newBackend(t, http.StatusOK, `{"document": {"id": "x", "title": "T"}}`)
			client := newTestClient(t, srv.URL)

			resp, err := client.GetDocument(context.Background(), tc.id)
			require.NoError(t, err)
			assert.Equal(t, "T", resp.Document.Title)
			assert.Equal(t, tc.expected, requests.recorded()[0].EscapedPath)
		})
	}
}

func TestGetDocument_KeepsBasePath(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, `{"document": {"id": "x"}}`)
	client := newTestClient(t, srv.URL+"/backend/")

	_, err := client.GetDocument(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "/backend/api/document/x", requests.recorded()[0].EscapedPath)
}

func TestGetSimilarDocuments(t *testing.T) {
	payload := `{"document_id": "a b", "results": [{"document": {"id": "c", "title": "C"}, "score": 0.75}]}`
	srv, requests := newBackend(t, http.StatusOK, payload)
	client := newTestClient(t, srv.URL)

	resp, err := client.GetSimilarDocuments(context.Background(), "a b", 3)
	require.NoError(t, err)

	req := requests.recorded()[0]
	assert.Equal(t, "/api/similar/a%20b", req.EscapedPath)
	assert.Equal(t, "3", req.Query.Get("top_k"))
	assert.Equal(t, "a b", resp.DocumentID)
	require.Len(t, resp.Results, 1)
	assert.InDelta(t, 0.75, resp.Results[0].Score, 1e-9)
	assert.Equal(t, "C", resp.Results[0].Document.Title)
}

func TestGetSimilarDocuments_DefaultTopK(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, `{"document_id": "a", "results": []}`)
	client := newTestClient(t, srv.URL)

	_, err := client.GetSimilarDocuments(context.Background(), "a", 0)
	require.NoError(t, err)
	assert.Equal(t, "5", requests.recorded()[0].Query.Get("top_k"))
}

func TestSearch(t *testing.T) {
	payload := `{"query": "cats", "results": [{"document": {"id": "d1", "title": "Cats"}, "score": 1.5}]}`
	srv, requests := newBackend(t, http.StatusOK, payload)
	client := newTestClient(t, srv.URL)

	resp, err := client.Search(context.Background(), "cats", 3)
	require.NoError(t, err)

	req := requests.recorded()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/search", req.EscapedPath)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"query":"cats","top_k":3}`, string(req.Body))

	var expected SearchResult
	require.NoError(t, json.Unmarshal([]byte(payload), &expected))
	assert.Equal(t, &expected, resp)
}

func TestSearch_DefaultTopK(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, `{"query": "x", "results": []}`)
	client := newTestClient(t, srv.URL)

	_, err := client.Search(context.Background(), "x", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"x","top_k":10}`, string(requests.recorded()[0].Body))
}

func TestStats(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, `{
		"total_documents": 42,
		"cache_stats": {"memory_cached_items": 3, "disk_cached_items": 7, "cache_directory": "/tmp/cache"}
	}`)
	client := newTestClient(t, srv.URL)

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/stats", requests.recorded()[0].EscapedPath)
	assert.Equal(t, 42, stats.TotalDocuments)
	assert.Equal(t, CacheStats{MemoryCachedItems: 3, DiskCachedItems: 7, CacheDirectory: "/tmp/cache"}, stats.CacheStats)
}

// allOperations calls each operation and reports whether a payload came back.
func allOperations(client *Client) map[string]func(ctx context.Context) (bool, error) {
	return map[string]func(ctx context.Context) (bool, error){
		"list": func(ctx context.Context) (bool, error) {
			out, err := client.ListDocuments(ctx, 1, 10)
			return out != nil, err
		},
		"get": func(ctx context.Context) (bool, error) {
			out, err := client.GetDocument(ctx, "x")
			return out != nil, err
		},
		"similar": func(ctx context.Context) (bool, error) {
			out, err := client.GetSimilarDocuments(ctx, "x", 5)
			return out != nil, err
		},
		"search": func(ctx context.Context) (bool, error) {
			out, err := client.Search(ctx, "q", 10)
			return out != nil, err
		},
		"stats": func(ctx context.Context) (bool, error) {
			out, err := client.Stats(ctx)
			return out != nil, err
		},
	}
}

func TestOperations_StatusFailure(t *testing.T) {
	srv, _ := newBackend(t, http.StatusInternalServerError, `{"error": "index not loaded"}`)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := newTestClient(t, srv.URL, WithLogger(logger))

	for name, call := range allOperations(client) {
		t.Run(name, func(t *testing.T) {
			gotPayload, err := call(context.Background())
			require.Error(t, err)
			assert.False(t, gotPayload, "no payload on failure")
			assert.ErrorIs(t, err, ErrRequestFailed)
			assert.NotErrorIs(t, err, ErrNotFound)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
			assert.Contains(t, statusErr.Body, "index not loaded")
			assert.NotContains(t, err.Error(), "index not loaded")
		})
	}

	assert.Contains(t, logs.String(), "index not loaded", "response body is logged")
}

func TestOperations_StatusMessages(t *testing.T) {
	srv, _ := newBackend(t, http.StatusBadRequest, `{"error": "bad"}`)
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := client.ListDocuments(ctx, 1, 1)
	assert.EqualError(t, err, "failed to fetch documents: status 400")
	_, err = client.GetDocument(ctx, "x")
	assert.EqualError(t, err, "failed to fetch document: status 400")
	_, err = client.GetSimilarDocuments(ctx, "x", 1)
	assert.EqualError(t, err, "failed to fetch similar documents: status 400")
	_, err = client.Search(ctx, "x", 1)
	assert.EqualError(t, err, "search failed: status 400")
}

func TestGetDocument_NotFound(t *testing.T) {
	srv, _ := newBackend(t, http.StatusNotFound, `{"error": "Document not found"}`)
	client := newTestClient(t, srv.URL)

	_, err := client.GetDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestOperations_TransportFailureReturnedUnchanged(t *testing.T) {
	errBoom := errors.New("connection refused")
	httpClient := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errBoom
	})}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	client := newTestClient(t, "http://backend.invalid", WithHTTPClient(httpClient), WithLogger(logger))

	for name, call := range allOperations(client) {
		t.Run(name, func(t *testing.T) {
			gotPayload, err := call(context.Background())
			require.Error(t, err)
			assert.False(t, gotPayload)
			assert.ErrorIs(t, err, errBoom)
			assert.NotErrorIs(t, err, ErrRequestFailed)

			var urlErr *url.Error
			assert.ErrorAs(t, err, &urlErr, "error from http.Client.Do is not rewrapped")
		})
	}

	assert.Contains(t, logs.String(), "connection refused")
}

func TestOperations_DecodeFailureReturnedUnchanged(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `<html>not json</html>`)
	client := newTestClient(t, srv.URL)

	_, err := client.ListDocuments(context.Background(), 1, 10)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRequestFailed)

	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestOperations_CanceledContext(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, `{}`)
	client := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Stats(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, requests.recorded())
}

func TestRequestIDFromContext(t *testing.T) {
	srv, requests := newBackend(t, http.StatusOK, `{"total_documents": 1}`)
	client := newTestClient(t, srv.URL, WithUserAgent("docsearch-test"))

	ctx := logging.WithRequestID(context.Background(), "req-7")
	_, err := client.Stats(ctx)
	require.NoError(t, err)

	req := requests.recorded()[0]
	assert.Equal(t, "req-7", req.Header.Get(RequestIDHeader))
	assert.Equal(t, "docsearch-test", req.Header.Get("User-Agent"))
}

func TestStatusErrorIs(t *testing.T) {
	err := error(&StatusError{Op: "x", StatusCode: http.StatusNotFound})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.False(t, errors.Is(err, io.EOF))
	assert.True(t, strings.HasPrefix(err.Error(), "x: status 404"))
}
