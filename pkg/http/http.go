// Package http provides a fluent HTTP client for outgoing storefront
// requests — in practice, every call the runtime makes to the record-store
// backend goes through it.
//
// Usage:
//
//	resp, err := http.Get(base + "/api/collections/product/records").
//	    Query("sort", "-created").
//	    Bearer(token).
//	    Send()
//
//	var page recordPage
//	err = resp.JSON(&page)
//
// Send performs exactly one attempt. Retry policy is deliberately NOT the
// transport's concern here: the record package implements the storefront's
// bounded linear-backoff-with-fallback semantics on top of it.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	gohttp "net/http"
	"net/url"
	"time"
)

// defaultTransport is the connection-pooled transport used in production.
var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 50,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared HTTP client for all outgoing requests.
// Tests swap DefaultClient.Transport to intercept calls:
//
//	http.DefaultClient.Transport = myMockTransport
//	defer http.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
// Call via defer after injecting a test transport.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// Request is a fluent HTTP request builder.
type Request struct {
	method  string
	url     string
	headers map[string]string
	query   url.Values
	body    interface{}
	timeout time.Duration
	ctx     context.Context
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(gohttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(gohttp.MethodPost, url) }

// Patch starts a PATCH request.
func Patch(url string) *Request { return newRequest(gohttp.MethodPatch, url) }

// Delete starts a DELETE request.
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

func newRequest(method, rawURL string) *Request {
	return &Request{
		method:  method,
		url:     rawURL,
		headers: map[string]string{"Accept": "application/json"},
		query:   url.Values{},
		timeout: 30 * time.Second,
		ctx:     context.Background(),
	}
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets the Authorization header. PocketBase-style backends accept
// the raw token without a scheme prefix.
func (r *Request) Bearer(token string) *Request {
	if token != "" {
		r.headers["Authorization"] = token
	}
	return r
}

// Query adds a URL query parameter. Empty values are skipped so callers
// can pass optional filter/sort expressions unconditionally.
func (r *Request) Query(key, value string) *Request {
	if value != "" {
		r.query.Set(key, value)
	}
	return r
}

// Body sets the request body. v is marshalled to JSON automatically;
// pass a string or []byte to send raw bodies.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout sets the request timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// WithContext sets a custom context.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request once and returns a Response.
func (r *Request) Send() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	target := r.url
	if len(r.query) > 0 {
		sep := "?"
		if bytes.ContainsRune([]byte(target), '?') {
			sep = "&"
		}
		target += sep + r.query.Encode()
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// Response wraps the HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}
