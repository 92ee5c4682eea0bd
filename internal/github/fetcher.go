package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Call shapes reported to a RequestObserver
const (
	ShapeGet     = "get"
	ShapeQuery   = "query"
	ShapeGraphQL = "graphql"
)

// RequestObserver is told about every request a Fetcher issues
type RequestObserver interface {
	ObserveRequest(shape string)
}

// Query holds query parameters; nil values are omitted from the request
type Query map[string]any

// Encode builds the query string with keys in sorted order
func (q Query) Encode() string {
	keys := make([]string, 0, len(q))
	for k, v := range q {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(fmt.Sprint(q[k])))
	}
	return strings.Join(parts, "&")
}

// Fetcher issues JSON requests against a base endpoint with a fixed header set.
// It is immutable after construction; Sub derives scoped fetchers.
type Fetcher struct {
	client   *http.Client
	headers  map[string]string
	base     string
	observer RequestObserver
}

// Option customizes a Fetcher
type Option func(*Fetcher)

// WithObserver reports each request to o
func WithObserver(o RequestObserver) Option {
	return func(f *Fetcher) { f.observer = o }
}

// NewFetcher creates a Fetcher for base. The headers map is copied.
func NewFetcher(client *http.Client, headers map[string]string, base string, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:  client,
		headers: copyHeaders(headers),
		base:    base,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DefaultHeaders are the REST headers for a token credential. An empty
// token sends no Authorization header.
func DefaultHeaders(token, userAgent string) map[string]string {
	h := map[string]string{
		"User-Agent": userAgent,
		"Accept":     "application/vnd.github.v3+json",
	}
	if token != "" {
		h["Authorization"] = "token " + token
	}
	return h
}

// GraphQLHeaders are the headers for the GraphQL endpoint
func GraphQLHeaders(token, userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":    userAgent,
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + token,
	}
}

// Base returns the endpoint this fetcher is scoped to
func (f *Fetcher) Base() string {
	return f.base
}

// Headers returns a copy of the held headers
func (f *Fetcher) Headers() map[string]string {
	return copyHeaders(f.headers)
}

// Sub returns a fetcher scoped to base/segments sharing a copy of the headers
func (f *Fetcher) Sub(segments ...string) *Fetcher {
	return &Fetcher{
		client:   f.client,
		headers:  copyHeaders(f.headers),
		base:     f.join(segments),
		observer: f.observer,
	}
}

// Fetch GETs base/segments and decodes the JSON body into out
func (f *Fetcher) Fetch(ctx context.Context, out any, segments ...string) error {
	return f.do(ctx, ShapeGet, http.MethodGet, f.join(segments), nil, out)
}

// FetchQuery is Fetch with a query string appended
func (f *Fetcher) FetchQuery(ctx context.Context, out any, query Query, segments ...string) error {
	endpoint := f.join(segments)
	if qs := query.Encode(); qs != "" {
		endpoint += "?" + qs
	}
	return f.do(ctx, ShapeQuery, http.MethodGet, endpoint, nil, out)
}

// FetchGraphQL POSTs {query, variables} to the base endpoint
func (f *Fetcher) FetchGraphQL(ctx context.Context, out any, query string, variables map[string]any) error {
	body, err := json.Marshal(struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}{query, variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}
	return f.do(ctx, ShapeGraphQL, http.MethodPost, f.base, body, out)
}

// Get is a typed wrapper around Fetch
func Get[T any](ctx context.Context, f *Fetcher, segments ...string) (T, error) {
	var out T
	err := f.Fetch(ctx, &out, segments...)
	return out, err
}

// GetQuery is a typed wrapper around FetchQuery
func GetQuery[T any](ctx context.Context, f *Fetcher, query Query, segments ...string) (T, error) {
	var out T
	err := f.FetchQuery(ctx, &out, query, segments...)
	return out, err
}

func (f *Fetcher) join(segments []string) string {
	return strings.Join(append([]string{f.base}, segments...), "/")
}

// do issues the request. HTTP status is not checked: error bodies are JSON too
// and surface when the caller reads the decoded value.
func (f *Fetcher) do(ctx context.Context, shape, method, endpoint string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	if f.observer != nil {
		f.observer.ObserveRequest(shape)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s (HTTP %d): invalid JSON response: %w", method, endpoint, resp.StatusCode, err)
	}
	return nil
}

func copyHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
