package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/app/session"
	"github.com/trancendwear/trancend/pkg/record"
)

// OrdersCollection is the backend collection of submitted orders.
const OrdersCollection = "orders"

// ErrNotAuthenticated rejects an order submission from an anonymous
// session before any network traffic happens.
var ErrNotAuthenticated = errors.New("orders: not authenticated")

// Orders submits and lists orders for the runtime's current identity.
type Orders struct {
	client  *record.Client
	session *session.Tracker
	opts    []record.CallOption
}

// NewOrders builds an Orders service bound to the session tracker that
// decides who is submitting.
func NewOrders(client *record.Client, tracker *session.Tracker, opts ...record.CallOption) *Orders {
	return &Orders{client: client, session: tracker, opts: opts}
}

// Create submits the cart as a pending order. It requires a logged-in
// session, runs exactly once (a checkout must never be retried blindly,
// duplicate orders are worse than a failed one), and returns backend
// errors verbatim.
func (s *Orders) Create(items []models.Line, total float64, shippingAddress string) (*models.Order, error) {
	if !s.session.LoggedIn() {
		return nil, ErrNotAuthenticated
	}
	id := s.session.Identity()

	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	order, err := record.Create[models.Order](s.client, OrdersCollection, map[string]interface{}{
		"user":             id.ID,
		"items":            string(encoded),
		"total":            total,
		"status":           models.StatusPending,
		"shipping_address": shippingAddress,
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForCurrentUser lists the identity's orders newest-first. Anonymous
// sessions get an empty list without a backend round trip; outages
// degrade to an empty list as well.
func (s *Orders) ListForCurrentUser() []models.Order {
	if !s.session.LoggedIn() {
		return []models.Order{}
	}
	userID := s.session.Identity().ID

	return record.Call(func() ([]models.Order, error) {
		return record.FullList[models.Order](s.client, OrdersCollection,
			record.Query{Filter: fmt.Sprintf("user=%q", userID), Sort: "-created"})
	}, []models.Order{}, s.opts...)
}
