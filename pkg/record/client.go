// Package record is the storefront's client for the remote record-store
// backend: named collections of JSON records with filter/sort list
// operations, password auth, and file-field URL resolution.
//
// The package has two layers:
//
//   - Client — thin typed operations that return errors verbatim. Auth and
//     order submission use these directly, because their callers must see
//     the real failure.
//   - Call — the resilient wrapper for read paths: bounded retries with
//     linear backoff, no retry on 4xx, and a caller-supplied fallback so
//     the caller always receives a value of the expected shape.
package record

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	httpx "github.com/trancendwear/trancend/pkg/http"
)

const listPageSize = 200

// Client talks to one record-store backend on behalf of one session.
// The token is mutable: the session tracker sets it on login/refresh and
// clears it on logout or expiry.
type Client struct {
	baseURL   string
	publicURL string

	mu    sync.RWMutex
	token string
}

// New creates a Client for the given backend base URL. publicURL is the
// browser-facing base used for file URLs; pass "" to reuse baseURL.
func New(baseURL, publicURL string) *Client {
	if publicURL == "" {
		publicURL = baseURL
	}
	return &Client{baseURL: baseURL, publicURL: publicURL}
}

// SetToken installs (or clears, with "") the session token used on
// subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token, "" when anonymous.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the backend base URL this client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

// FileURL resolves a file-typed field to its public URL using the
// backend's collection-id + record-id + filename addressing scheme.
func (c *Client) FileURL(collectionID, recordID, filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/files/%s/%s/%s",
		c.publicURL,
		url.PathEscape(collectionID),
		url.PathEscape(recordID),
		url.PathEscape(filename),
	)
}

// Query carries the list parameters accepted by the backend.
type Query struct {
	Filter string
	Sort   string
}

type listPage struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalPages int               `json:"totalPages"`
	Items      []json.RawMessage `json:"items"`
}

// FullList fetches every record of a collection matching q, walking the
// backend's pagination.
func FullList[T any](c *Client, collection string, q Query) ([]T, error) {
	var out []T

	for page := 1; ; page++ {
		resp, err := httpx.Get(c.recordsURL(collection)).
			Query("filter", q.Filter).
			Query("sort", q.Sort).
			Query("perPage", strconv.Itoa(listPageSize)).
			Query("page", strconv.Itoa(page)).
			Bearer(c.Token()).
			Send()
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, responseError(resp)
		}

		var pg listPage
		if err := resp.JSON(&pg); err != nil {
			return nil, err
		}

		for _, raw := range pg.Items {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("record: decode %s item: %w", collection, err)
			}
			out = append(out, item)
		}

		if page >= pg.TotalPages || len(pg.Items) == 0 {
			return out, nil
		}
	}
}

// One fetches a single record by id.
func One[T any](c *Client, collection, id string) (T, error) {
	var out T

	resp, err := httpx.Get(c.recordsURL(collection) + "/" + url.PathEscape(id)).
		Bearer(c.Token()).
		Send()
	if err != nil {
		return out, err
	}
	if !resp.OK() {
		return out, responseError(resp)
	}

	err = resp.JSON(&out)
	return out, err
}

// FirstListItem fetches the first record matching filter. A 404-shaped
// *Error is returned when nothing matches, mirroring the backend SDK.
func FirstListItem[T any](c *Client, collection, filter string) (T, error) {
	var out T

	items, err := FullList[T](c, collection, Query{Filter: filter})
	if err != nil {
		return out, err
	}
	if len(items) == 0 {
		return out, &Error{Status: 404, Message: "no records match the filter"}
	}
	return items[0], nil
}

// Create inserts a new record and decodes the stored result into T.
func Create[T any](c *Client, collection string, body interface{}) (T, error) {
	var out T

	resp, err := httpx.Post(c.recordsURL(collection)).
		Body(body).
		Bearer(c.Token()).
		Send()
	if err != nil {
		return out, err
	}
	if !resp.OK() {
		return out, responseError(resp)
	}

	err = resp.JSON(&out)
	return out, err
}

// Update patches an existing record and decodes the stored result into T.
func Update[T any](c *Client, collection, id string, body interface{}) (T, error) {
	var out T

	resp, err := httpx.Patch(c.recordsURL(collection) + "/" + url.PathEscape(id)).
		Body(body).
		Bearer(c.Token()).
		Send()
	if err != nil {
		return out, err
	}
	if !resp.OK() {
		return out, responseError(resp)
	}

	err = resp.JSON(&out)
	return out, err
}

func (c *Client) recordsURL(collection string) string {
	return c.baseURL + "/api/collections/" + url.PathEscape(collection) + "/records"
}

func responseError(resp *httpx.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(resp.Raw, &body)
	if body.Message == "" {
		body.Message = resp.Text()
	}
	return &Error{Status: resp.StatusCode, Message: body.Message}
}
