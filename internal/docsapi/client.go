// Package docsapi is the HTTP client for the document-search backend.
//
// Every operation issues exactly one request. Non-2xx responses become a
// *StatusError after the body is logged; transport and decode failures are
// logged and returned unchanged. There is no retry and no caching.
package docsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"docsearch/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultPage        = 1
	DefaultPerPage     = 10
	DefaultSimilarTopK = 5
	DefaultSearchTopK  = 10

	RequestIDHeader = "X-Request-ID"

	maxErrorBodyBytes = 64 << 10
)

const (
	opListDocuments = "failed to fetch documents"
	opGetDocument   = "failed to fetch document"
	opGetSimilar    = "failed to fetch similar documents"
	opSearch        = "search failed"
	opStats         = "failed to fetch stats"
)

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(userAgent)
	}
}

// NewClient returns a client for the backend rooted at baseURL, for example
// "http://localhost:5000". A trailing slash is ignored.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("docsapi: base url cannot be empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("docsapi: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("docsapi: base url %q must be absolute", baseURL)
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{},
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListDocuments fetches one page of the collection. page and perPage below 1
// fall back to DefaultPage and DefaultPerPage.
func (c *Client) ListDocuments(ctx context.Context, page int, perPage int) (*DocumentPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var out DocumentPage
	if err := c.do(ctx, opListDocuments, http.MethodGet, c.endpoint(query, "api", "documents"), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*DocumentResponse, error) {
	c.logger.DebugContext(ctx, "fetching document", "document_id", id)

	var out DocumentResponse
	if err := c.do(ctx, opGetDocument, http.MethodGet, c.endpoint(nil, "api", "document", id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetSimilarDocuments fetches the documents closest to id. topK below 1 falls
// back to DefaultSimilarTopK.
func (c *Client) GetSimilarDocuments(ctx context.Context, id string, topK int) (*SimilarResult, error) {
	if topK < 1 {
		topK = DefaultSimilarTopK
	}
	c.logger.DebugContext(ctx, "fetching similar documents", "document_id", id, "top_k", topK)

	query := url.Values{}
	query.Set("top_k", strconv.Itoa(topK))

	var out SimilarResult
	if err := c.do(ctx, opGetSimilar, http.MethodGet, c.endpoint(query, "api", "similar", id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Search runs a ranked query. topK below 1 falls back to DefaultSearchTopK.
func (c *Client) Search(ctx context.Context, query string, topK int) (*SearchResult, error) {
	if topK < 1 {
		topK = DefaultSearchTopK
	}
	c.logger.DebugContext(ctx, "searching", "query", query, "top_k", topK)

	payload, err := json.Marshal(searchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	var out SearchResult
	if err := c.do(ctx, opSearch, http.MethodPost, c.endpoint(nil, "api", "search"), payload, &out); err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "search response", "query", out.Query, "results", len(out.Results))

	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.do(ctx, opStats, http.MethodGet, c.endpoint(nil, "api", "stats"), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// endpoint joins the base URL with path segments. Each segment is escaped
// as a whole, so an identifier containing "/" stays one segment.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	var rawPath strings.Builder
	rawPath.WriteString(strings.TrimRight(c.baseURL.EscapedPath(), "/"))
	for _, segment := range segments {
		rawPath.WriteString("/")
		rawPath.WriteString(url.PathEscape(segment))
	}

	prefix := *c.baseURL
	prefix.Path = ""
	prefix.RawPath = ""
	prefix.RawQuery = ""
	prefix.Fragment = ""

	target := prefix.String() + rawPath.String()
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return target
}

func (c *Client) do(ctx context.Context, op string, method string, target string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.logger.ErrorContext(ctx, "api error", "op", op, "error", err)
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(RequestIDHeader, requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "api error", "op", op, "method", method, "url", target, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		text, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if readErr != nil {
			c.logger.WarnContext(ctx, "read api error body", "op", op, "error", readErr)
		}
		c.logger.ErrorContext(ctx, "api response error",
			"op", op,
			"method", method,
			"url", target,
			"status", resp.StatusCode,
			"body", string(text),
		)
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(text)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.ErrorContext(ctx, "api error", "op", op, "method", method, "url", target, "error", err)
		return err
	}

	return nil
}

func requestID(ctx context.Context) string {
	if id := logging.RequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
