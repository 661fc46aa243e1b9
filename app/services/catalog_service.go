// Package services exposes the storefront's typed data access: catalog
// reads that degrade to seed data through backend outages, and order
// writes whose failures surface verbatim.
package services

import (
	"fmt"
	"strings"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/pkg/collection"
	"github.com/trancendwear/trancend/pkg/record"
)

// Backend collection names. "product" is singular for legacy reasons and
// must stay that way.
const (
	CategoriesCollection = "categories"
	ProductsCollection   = "product"
	HeroSlidesCollection = "hero_slides"
)

// Catalog serves categories, products, and hero slides. Every read goes
// through the resilient call wrapper, so callers always get a renderable
// value even while the backend is down.
type Catalog struct {
	client *record.Client
	opts   []record.CallOption
}

// NewCatalog builds a Catalog on client. opts tune the retry budget of
// every read; tests pass record.Attempts(1).
func NewCatalog(client *record.Client, opts ...record.CallOption) *Catalog {
	return &Catalog{client: client, opts: opts}
}

// Categories lists active categories in display order.
func (s *Catalog) Categories() []models.Category {
	return record.Call(func() ([]models.Category, error) {
		return record.FullList[models.Category](s.client, CategoriesCollection,
			record.Query{Filter: "active=true", Sort: "order"})
	}, seedCategoryList(), s.opts...)
}

// Products lists products newest-first, optionally narrowed to one
// category slug.
func (s *Catalog) Products(categorySlug string) []models.Product {
	filter := ""
	if categorySlug != "" {
		filter = fmt.Sprintf("category=%q", categorySlug)
	}

	fallback := seedProductList()
	if categorySlug != "" {
		fallback = collection.Filter(fallback, func(p models.Product) bool {
			return p.Category == categorySlug
		})
	}

	return record.Call(func() ([]models.Product, error) {
		return record.FullList[models.Product](s.client, ProductsCollection,
			record.Query{Filter: filter, Sort: "-created"})
	}, fallback, s.opts...)
}

// Product fetches one product by id, nil when it exists nowhere — a
// backend miss falls through to the seed lookup.
func (s *Catalog) Product(id string) *models.Product {
	return record.Call(func() (*models.Product, error) {
		p, err := record.One[models.Product](s.client, ProductsCollection, id)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}, seedProduct(id), s.opts...)
}

// Featured lists featured products newest-first.
func (s *Catalog) Featured() []models.Product {
	return record.Call(func() ([]models.Product, error) {
		return record.FullList[models.Product](s.client, ProductsCollection,
			record.Query{Filter: "featured=true", Sort: "-created"})
	}, collection.Filter(seedProductList(), func(p models.Product) bool {
		return p.Featured
	}), s.opts...)
}

// Search matches query case-insensitively against product name,
// description, and category. A blank query short-circuits to an empty
// result without touching the backend.
func (s *Catalog) Search(query string) []models.Product {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.Product{}
	}

	filter := fmt.Sprintf("name ~ %q || description ~ %q || category ~ %q", q, q, q)

	lq := strings.ToLower(q)
	fallback := collection.Filter(seedProductList(), func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), lq) ||
			strings.Contains(strings.ToLower(p.Description), lq) ||
			strings.Contains(strings.ToLower(p.Category), lq)
	})

	return record.Call(func() ([]models.Product, error) {
		return record.FullList[models.Product](s.client, ProductsCollection,
			record.Query{Filter: filter, Sort: "-created"})
	}, fallback, s.opts...)
}

// HeroSlides lists active hero slides in display order.
func (s *Catalog) HeroSlides() []models.HeroSlide {
	return record.Call(func() ([]models.HeroSlide, error) {
		return record.FullList[models.HeroSlide](s.client, HeroSlidesCollection,
			record.Query{Filter: "active=true", Sort: "order"})
	}, seedHeroSlideList(), s.opts...)
}
