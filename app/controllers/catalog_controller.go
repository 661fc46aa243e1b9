// Package controllers holds the HTTP handlers of the storefront gateway.
// Handlers are thin: they pull the per-session runtime from the request
// context, delegate to its services, and shape the JSON envelope.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trancendwear/trancend/internal/runtime"
	"github.com/trancendwear/trancend/pkg/response"
)

type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

// Categories lists active categories in display order.
func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	response.Success(w, rt.Catalog.Categories())
}

// Products lists products newest-first; ?category=slug narrows the list.
func (c *CatalogController) Products(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	response.Success(w, rt.Catalog.Products(r.URL.Query().Get("category")))
}

// Product fetches one product by id.
func (c *CatalogController) Product(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)

	p := rt.Catalog.Product(chi.URLParam(r, "id"))
	if p == nil {
		response.NotFound(w)
		return
	}
	response.Success(w, p)
}

// Featured lists featured products.
func (c *CatalogController) Featured(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	response.Success(w, rt.Catalog.Featured())
}

// Search matches ?q= against name, description, and category.
func (c *CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	response.Success(w, rt.Catalog.Search(r.URL.Query().Get("q")))
}

// HeroSlides lists active hero slides in display order.
func (c *CatalogController) HeroSlides(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	response.Success(w, rt.Catalog.HeroSlides())
}
