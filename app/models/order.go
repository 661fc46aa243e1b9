package models

// Order statuses. The storefront only ever writes StatusPending; the
// remaining transitions are driven by back-office tooling.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Order is an immutable snapshot of a cart at submission time. Lines are
// embedded, not referenced, so later catalog edits never rewrite history.
type Order struct {
	ID              string   `json:"id"`
	User            string   `json:"user"`
	Items           LineList `json:"items"`
	Total           float64  `json:"total"`
	Status          string   `json:"status"`
	ShippingAddress string   `json:"shipping_address"`
	Created         string   `json:"created"`
}
