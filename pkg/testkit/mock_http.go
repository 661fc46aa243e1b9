// Package testkit provides test doubles for the storefront's outgoing
// HTTP traffic.
//
// MockTransport implements http.RoundTripper: tests script responses per
// URL prefix, install the transport on the shared client, exercise the
// code under test, then assert on the recorded calls.
//
//	mt := testkit.Install(t)
//	mt.On("GET", "/api/collections/product/records").ReplyJSON(200, page)
//	// ... run code ...
//	assert.Equal(t, 1, mt.CallCount("GET", "/api/collections/product"))
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	httpx "github.com/trancendwear/trancend/pkg/http"
)

// Call records one intercepted request.
type Call struct {
	Method string
	URL    string
	Body   []byte
}

type stub struct {
	status int
	body   []byte
}

// Rule matches requests by method + URL substring and serves scripted
// responses. Responses are consumed in order; the last one repeats.
type Rule struct {
	method  string // "" matches any method
	match   string // "" matches any URL
	replies []stub
	served  int
}

// Reply queues a raw response body for this rule.
func (r *Rule) Reply(status int, body string) *Rule {
	r.replies = append(r.replies, stub{status: status, body: []byte(body)})
	return r
}

// ReplyJSON queues a response with v marshalled as the body.
func (r *Rule) ReplyJSON(status int, v interface{}) *Rule {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testkit: marshal reply: %v", err))
	}
	r.replies = append(r.replies, stub{status: status, body: raw})
	return r
}

// ReplyError queues a backend-shaped error response.
func (r *Rule) ReplyError(status int, message string) *Rule {
	return r.ReplyJSON(status, map[string]interface{}{
		"status":  status,
		"message": message,
	})
}

// MockTransport intercepts every request made through the shared client.
type MockTransport struct {
	mu    sync.Mutex
	rules []*Rule
	calls []Call
}

// NewMockTransport returns an empty transport; unmatched requests get a
// generic 404 so tests fail loudly on assertions rather than hanging.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Install puts a fresh MockTransport on the shared HTTP client and
// restores the real transport when the test finishes.
func Install(t *testing.T) *MockTransport {
	t.Helper()
	mt := NewMockTransport()
	httpx.DefaultClient.Transport = mt
	t.Cleanup(httpx.ResetTransport)
	return mt
}

// On adds a matching rule. method "" matches any method; match "" matches
// any URL, otherwise a substring match is performed.
func (mt *MockTransport) On(method, match string) *Rule {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	rule := &Rule{method: method, match: match}
	mt.rules = append(mt.rules, rule)
	return rule
}

// RoundTrip matches the request against the scripted rules.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	mt.calls = append(mt.calls, Call{Method: req.Method, URL: req.URL.String(), Body: body})

	for _, rule := range mt.rules {
		if rule.method != "" && rule.method != req.Method {
			continue
		}
		if rule.match != "" && !strings.Contains(req.URL.String(), rule.match) {
			continue
		}
		if len(rule.replies) == 0 {
			continue
		}

		idx := rule.served
		if idx >= len(rule.replies) {
			idx = len(rule.replies) - 1
		}
		rule.served++

		st := rule.replies[idx]
		return response(req, st.status, st.body), nil
	}

	return response(req, http.StatusNotFound, []byte(`{"status":404,"message":"no mock configured"}`)), nil
}

// Calls returns every intercepted request in order.
func (mt *MockTransport) Calls() []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	out := make([]Call, len(mt.calls))
	copy(out, mt.calls)
	return out
}

// CallCount counts intercepted requests matching method + URL substring;
// empty arguments match everything.
func (mt *MockTransport) CallCount(method, match string) int {
	n := 0
	for _, c := range mt.Calls() {
		if method != "" && c.Method != method {
			continue
		}
		if match != "" && !strings.Contains(c.URL, match) {
			continue
		}
		n++
	}
	return n
}

func response(req *http.Request, status int, body []byte) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
}
