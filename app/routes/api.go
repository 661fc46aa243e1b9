// Package routes registers the storefront gateway's HTTP surface.
package routes

import (
	"net/http"

	"github.com/trancendwear/trancend/app/controllers"
	"github.com/trancendwear/trancend/internal/runtime"
	"github.com/trancendwear/trancend/pkg/metrics"
	"github.com/trancendwear/trancend/pkg/response"
	"github.com/trancendwear/trancend/pkg/router"
	"github.com/trancendwear/trancend/pkg/ws"
)

func RegisterAPI(r *router.Router, hub *ws.Hub) error {
	catalog := controllers.NewCatalogController()
	auth := controllers.NewAuthController()
	cart := controllers.NewCartController()
	orders := controllers.NewOrdersController()

	api := r.Group("/api")

	api.Get("/categories", "catalog.categories", catalog.Categories)
	api.Get("/products", "catalog.products", catalog.Products)
	api.Get("/products/featured", "catalog.featured", catalog.Featured)
	api.Get("/products/search", "catalog.search", catalog.Search)
	api.Get("/products/{id}", "catalog.product", catalog.Product)
	api.Get("/hero-slides", "catalog.hero", catalog.HeroSlides)

	api.Post("/auth/login", "auth.login", auth.Login)
	api.Post("/auth/register", "auth.register", auth.Register)
	api.Post("/auth/logout", "auth.logout", auth.Logout)
	api.Get("/auth/me", "auth.me", auth.Me)

	api.Get("/cart", "cart.show", cart.Show)
	api.Post("/cart/items", "cart.add", cart.Add)
	api.Patch("/cart/items", "cart.quantity", cart.UpdateQuantity)
	api.Delete("/cart/items", "cart.remove", cart.Remove)
	api.Delete("/cart", "cart.clear", cart.Clear)
	api.Post("/cart/checkout", "cart.checkout", cart.Checkout)

	api.Get("/orders", "orders.index", orders.Index)

	graphqlHandler, err := controllers.NewGraphQLHandler()
	if err != nil {
		return err
	}
	r.Post("/graphql", "graphql", graphqlHandler)

	r.Get("/ws", "ws", func(w http.ResponseWriter, req *http.Request) {
		rt := runtime.FromCtx(req)
		if rt == nil {
			response.Error(w, http.StatusInternalServerError, "no session runtime")
			return
		}
		ws.Upgrade(w, req, hub, rt.ID)
	})

	r.Get("/healthz", "health", func(w http.ResponseWriter, req *http.Request) {
		rt := runtime.FromCtx(req)
		status := map[string]interface{}{"ok": true}
		if rt != nil {
			status["backend"] = rt.Client.Health() == nil
		}
		response.Success(w, status)
	})

	r.Mount("/metrics", metrics.Handler())
	return nil
}
