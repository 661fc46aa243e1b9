package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/app/session"
	"github.com/trancendwear/trancend/pkg/event"
	"github.com/trancendwear/trancend/pkg/record"
	"github.com/trancendwear/trancend/pkg/testkit"
)

func signedToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{"id": "u1", "exp": time.Now().Add(time.Hour).Unix()}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

// loggedInTracker builds a tracker already holding a valid session.
func loggedInTracker(t *testing.T, mt *testkit.MockTransport, client *record.Client) *session.Tracker {
	t.Helper()
	mt.On("POST", "/auth-with-password").ReplyJSON(200, map[string]interface{}{
		"token":  signedToken(t),
		"record": map[string]string{"id": "u1", "email": "trancend@example.com"},
	})

	tracker := session.NewTracker(client, testkit.NewMemStore(), "trancend:token:s1", event.New())
	_, err := tracker.Login("trancend@example.com", "secret")
	require.NoError(t, err)
	return tracker
}

func anonymousTracker(client *record.Client) *session.Tracker {
	return session.NewTracker(client, testkit.NewMemStore(), "trancend:token:s1", event.New())
}

func checkoutLines() []models.Line {
	return []models.Line{
		{Product: models.Product{ID: "1", Name: "VOID TEE", Price: 45}, Size: "M", Quantity: 2},
	}
}

func TestCreateOrderRequiresAuthentication(t *testing.T) {
	mt := testkit.Install(t)
	client := record.New("http://backend.test", "")
	orders := NewOrders(client, anonymousTracker(client))

	_, err := orders.Create(checkoutLines(), 90, "12 rue de la Paix, Paris")

	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, mt.CallCount("", ""), "the precondition must fail before any network traffic")
}

func TestCreateOrderSubmitsPendingSnapshot(t *testing.T) {
	mt := testkit.Install(t)
	client := record.New("http://backend.test", "")
	tracker := loggedInTracker(t, mt, client)

	mt.On("POST", "/api/collections/orders/records").
		ReplyJSON(200, map[string]interface{}{
			"id": "o1", "user": "u1", "total": 90, "status": models.StatusPending,
			"shipping_address": "12 rue de la Paix, Paris",
		})

	orders := NewOrders(client, tracker)
	order, err := orders.Create(checkoutLines(), 90, "12 rue de la Paix, Paris")
	require.NoError(t, err)

	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, models.StatusPending, order.Status)

	calls := mt.Calls()
	sent := calls[len(calls)-1]
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(sent.Body, &body))
	assert.Equal(t, "u1", body["user"])
	assert.Equal(t, models.StatusPending, body["status"])

	// Items travel as a JSON-encoded string, the backend field is text.
	items, ok := body["items"].(string)
	require.True(t, ok)
	var lines []models.Line
	require.NoError(t, json.Unmarshal([]byte(items), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCreateOrderIsNeverRetried(t *testing.T) {
	mt := testkit.Install(t)
	client := record.New("http://backend.test", "")
	tracker := loggedInTracker(t, mt, client)

	mt.On("POST", "/api/collections/orders/records").ReplyError(500, "down")

	orders := NewOrders(client, tracker)
	_, err := orders.Create(checkoutLines(), 90, "12 rue de la Paix, Paris")

	require.Error(t, err)
	assert.Equal(t, 500, record.StatusOf(err))
	assert.Equal(t, 1, mt.CallCount("POST", "/api/collections/orders/records"))
}

func TestListForCurrentUserAnonymousIsEmptyWithoutNetwork(t *testing.T) {
	mt := testkit.Install(t)
	client := record.New("http://backend.test", "")
	orders := NewOrders(client, anonymousTracker(client))

	assert.Empty(t, orders.ListForCurrentUser())
	assert.Equal(t, 0, mt.CallCount("", ""))
}

func TestListForCurrentUserFiltersAndSorts(t *testing.T) {
	mt := testkit.Install(t)
	client := record.New("http://backend.test", "")
	tracker := loggedInTracker(t, mt, client)

	itemsJSON, err := json.Marshal(checkoutLines())
	require.NoError(t, err)
	mt.On("GET", "/api/collections/orders/records").
		ReplyJSON(200, listPage([]map[string]interface{}{
			{"id": "o1", "user": "u1", "items": string(itemsJSON), "total": 90, "status": "pending"},
		}))

	orders := NewOrders(client, tracker, once...)
	got := orders.ListForCurrentUser()

	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
	require.Len(t, got[0].Items, 1, "string-encoded items must decode")

	calls := mt.Calls()
	q := queryOf(t, calls[len(calls)-1].URL)
	assert.Equal(t, `user="u1"`, q.Get("filter"))
	assert.Equal(t, "-created", q.Get("sort"))
}

func TestListForCurrentUserOutageDegradesToEmpty(t *testing.T) {
	mt := testkit.Install(t)
	client := record.New("http://backend.test", "")
	tracker := loggedInTracker(t, mt, client)

	mt.On("GET", "/api/collections/orders/records").ReplyError(500, "down")

	orders := NewOrders(client, tracker, once...)

	assert.Empty(t, orders.ListForCurrentUser())
}
