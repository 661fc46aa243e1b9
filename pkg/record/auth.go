package record

import (
	"encoding/json"
	"net/url"

	httpx "github.com/trancendwear/trancend/pkg/http"
)

// UsersCollection is the backend's built-in auth collection.
const UsersCollection = "users"

// AuthResult is the backend's answer to a successful auth call: a session
// token plus the authenticated record.
type AuthResult struct {
	Token  string          `json:"token"`
	Record json.RawMessage `json:"record"`
}

// AuthWithPassword exchanges credentials for a session token. On success
// the token is installed on the client. Failures propagate verbatim —
// the caller must show a field-level error, not a fallback.
func (c *Client) AuthWithPassword(identity, password string) (*AuthResult, error) {
	resp, err := httpx.Post(c.authURL("auth-with-password")).
		Body(map[string]string{"identity": identity, "password": password}).
		Send()
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, responseError(resp)
	}

	var out AuthResult
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}

	c.SetToken(out.Token)
	return &out, nil
}

// AuthRefresh validates the currently installed token and returns a fresh
// one with the up-to-date record. Used once per page load on startup.
func (c *Client) AuthRefresh() (*AuthResult, error) {
	if c.Token() == "" {
		return nil, &Error{Status: 401, Message: "missing session token"}
	}

	resp, err := httpx.Post(c.authURL("auth-refresh")).
		Bearer(c.Token()).
		Send()
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, responseError(resp)
	}

	var out AuthResult
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}

	c.SetToken(out.Token)
	return &out, nil
}

// CreateAccount registers a new user record on the auth collection.
// The backend enforces password confirmation.
func (c *Client) CreateAccount(email, password, name string) error {
	resp, err := httpx.Post(c.recordsURL(UsersCollection)).
		Body(map[string]string{
			"email":           email,
			"password":        password,
			"passwordConfirm": password,
			"name":            name,
		}).
		Send()
	if err != nil {
		return err
	}
	if !resp.OK() {
		return responseError(resp)
	}
	return nil
}

// ClearToken drops the session token. Invalidation is local-only: the
// backend keeps no server-side session to revoke.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Health probes the backend's health endpoint.
func (c *Client) Health() error {
	resp, err := httpx.Get(c.baseURL + "/api/health").Send()
	if err != nil {
		return err
	}
	if !resp.OK() {
		return responseError(resp)
	}
	return nil
}

func (c *Client) authURL(action string) string {
	return c.baseURL + "/api/collections/" + url.PathEscape(UsersCollection) + "/" + action
}
