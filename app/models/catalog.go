// Package models defines the record shapes exchanged with the record-store
// backend. They are read-mostly from the storefront's perspective: the
// client never mutates a catalog record, only its own cart and orders.
package models

import "encoding/json"

// Category is a catalog category, addressed by slug.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	Order        int    `json:"order"`
	Active       bool   `json:"active"`
	CollectionID string `json:"collectionId"`
}

// Color is a product color variant.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ColorList tolerates both shapes the backend has stored colors in over
// time: a proper JSON array and a JSON-encoded string of one. Unparseable
// payloads decode to an empty list rather than failing the record.
type ColorList []Color

func (c *ColorList) UnmarshalJSON(data []byte) error {
	var arr []Color
	if err := json.Unmarshal(data, &arr); err == nil {
		*c = arr
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		var nested []Color
		if err := json.Unmarshal([]byte(raw), &nested); err == nil {
			*c = nested
			return nil
		}
	}

	*c = nil
	return nil
}

// Product is a catalog product. Empty Sizes means "one size"; empty Colors
// means "no color choice".
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Category     string    `json:"category"` // category slug
	Images       []string  `json:"images"`
	Sizes        []string  `json:"sizes"`
	Colors       ColorList `json:"colors"`
	InStock      bool      `json:"in_stock"`
	Featured     bool      `json:"featured"`
	CollectionID string    `json:"collectionId"`
	Created      string    `json:"created"`
}

// HeroSlide is a promotional carousel slide.
type HeroSlide struct {
	ID           string `json:"id"`
	Image        string `json:"image"`
	Title        string `json:"title,omitempty"`
	Subtitle     string `json:"subtitle,omitempty"`
	CTALabel     string `json:"cta_label,omitempty"`
	CTAURL       string `json:"cta_url,omitempty"`
	Order        int    `json:"order"`
	Active       bool   `json:"active"`
	CollectionID string `json:"collectionId"`
}
