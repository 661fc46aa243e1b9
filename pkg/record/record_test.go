package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancendwear/trancend/pkg/testkit"
)

func TestCallReturnsResultOnFirstSuccess(t *testing.T) {
	attempts := 0
	got := Call(func() ([]string, error) {
		attempts++
		return []string{"a", "b"}, nil
	}, nil, Attempts(3), Backoff(0))

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, attempts)
}

func TestCallRetriesTransientFailuresExactlyMaxAttempts(t *testing.T) {
	attempts := 0
	got := Call(func() (string, error) {
		attempts++
		return "", &Error{Status: 500, Message: "boom"}
	}, "fallback", Attempts(3), Backoff(0))

	assert.Equal(t, "fallback", got)
	assert.Equal(t, 3, attempts)
}

func TestCallDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	got := Call(func() (int, error) {
		attempts++
		return 0, &Error{Status: 404, Message: "missing"}
	}, 42, Attempts(3), Backoff(0))

	assert.Equal(t, 42, got)
	assert.Equal(t, 1, attempts)
}

func TestCallRetriesTransportErrors(t *testing.T) {
	attempts := 0
	got := Call(func() (int, error) {
		attempts++
		return 0, assert.AnError // no status attached
	}, -1, Attempts(2), Backoff(0))

	assert.Equal(t, -1, got)
	assert.Equal(t, 2, attempts)
}

func TestCallBackoffIsLinear(t *testing.T) {
	var gaps []time.Duration
	last := time.Now()
	unit := 10 * time.Millisecond

	Call(func() (int, error) {
		now := time.Now()
		gaps = append(gaps, now.Sub(last))
		last = now
		return 0, &Error{Status: 503, Message: "unavailable"}
	}, 0, Attempts(3), Backoff(unit))

	require.Len(t, gaps, 3)
	// Gap before attempt 2 ≈ 1×unit, before attempt 3 ≈ 2×unit.
	assert.GreaterOrEqual(t, gaps[1], unit)
	assert.GreaterOrEqual(t, gaps[2], 2*unit)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(&Error{Status: 400}))
	assert.True(t, IsClientError(&Error{Status: 499}))
	assert.False(t, IsClientError(&Error{Status: 500}))
	assert.False(t, IsClientError(assert.AnError))
}

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestFullListWalksPagination(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/widgets/records").
		ReplyJSON(200, map[string]interface{}{
			"page": 1, "perPage": 1, "totalPages": 2,
			"items": []widget{{ID: "1", Name: "one"}},
		}).
		ReplyJSON(200, map[string]interface{}{
			"page": 2, "perPage": 1, "totalPages": 2,
			"items": []widget{{ID: "2", Name: "two"}},
		})

	c := New("http://backend.test", "")
	got, err := FullList[widget](c, "widgets", Query{Sort: "-created"})
	require.NoError(t, err)

	assert.Equal(t, []widget{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}, got)
	assert.Equal(t, 2, mt.CallCount("GET", "/api/collections/widgets/records"))
}

func TestFirstListItemReturns404ShapedErrorWhenEmpty(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/carts/records").
		ReplyJSON(200, map[string]interface{}{
			"page": 1, "perPage": 200, "totalPages": 1, "items": []widget{},
		})

	c := New("http://backend.test", "")
	_, err := FirstListItem[widget](c, "carts", `user="u1"`)

	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.Equal(t, 404, StatusOf(err))
}

func TestAuthWithPasswordInstallsToken(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("POST", "/api/collections/users/auth-with-password").
		ReplyJSON(200, map[string]interface{}{
			"token":  "tok-1",
			"record": map[string]string{"id": "u1", "email": "a@b.c"},
		})

	c := New("http://backend.test", "")
	res, err := c.AuthWithPassword("a@b.c", "secret")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "tok-1", c.Token())
}

func TestAuthWithPasswordPropagatesFailureVerbatim(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("POST", "/api/collections/users/auth-with-password").
		ReplyError(400, "Failed to authenticate.")

	c := New("http://backend.test", "")
	_, err := c.AuthWithPassword("a@b.c", "wrong")

	require.Error(t, err)
	assert.Equal(t, 400, StatusOf(err))
	assert.Empty(t, c.Token())
}

func TestAuthRefreshWithoutTokenFailsLocally(t *testing.T) {
	mt := testkit.Install(t)

	c := New("http://backend.test", "")
	_, err := c.AuthRefresh()

	require.Error(t, err)
	assert.Equal(t, 401, StatusOf(err))
	assert.Equal(t, 0, mt.CallCount("", ""))
}

func TestFileURL(t *testing.T) {
	c := New("http://internal:8090", "https://cdn.example.com")

	assert.Equal(t,
		"https://cdn.example.com/api/files/products/p1/front.jpg",
		c.FileURL("products", "p1", "front.jpg"))
	assert.Empty(t, c.FileURL("products", "p1", ""))
}
