package models

import "encoding/json"

// SizeOne is the size sentinel for products that carry no size choice.
const SizeOne = "UNIQUE"

// Line is one cart entry. Two lines never share a Key: adding the same
// product + size + color again increments the existing line's quantity.
type Line struct {
	Product  Product `json:"product"`
	Color    *Color  `json:"color,omitempty"` // nil when the product has no colors
	Size     string  `json:"size"`            // SizeOne when the product has no sizes
	Quantity int     `json:"quantity"`
}

// LineKey is the uniqueness key of a cart line.
type LineKey struct {
	ProductID string
	Size      string
	ColorName string
}

// Key returns the line's uniqueness key.
func (l Line) Key() LineKey {
	k := LineKey{ProductID: l.Product.ID, Size: l.Size}
	if l.Color != nil {
		k.ColorName = l.Color.Name
	}
	return k
}

// Subtotal is price × quantity for this line.
func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// LineList tolerates both shapes the backend stores line lists in: a
// proper JSON array and a JSON-encoded string of one (cart and order
// records use a plain text field). Unparseable payloads decode to an
// empty list rather than failing the record.
type LineList []Line

func (l *LineList) UnmarshalJSON(data []byte) error {
	var arr []Line
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		var nested []Line
		if err := json.Unmarshal([]byte(raw), &nested); err == nil {
			*l = nested
			return nil
		}
	}

	*l = nil
	return nil
}
