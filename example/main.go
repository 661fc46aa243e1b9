// Package main walks through the storefront library without the HTTP
// gateway: browse the catalog, fill a cart anonymously, log in (merging
// the carts), and submit an order.
//
// To run against a local record-store backend:
//
//	BACKEND_URL=http://127.0.0.1:8090 go run ./example
//
// Without a backend the catalog reads degrade to seed data and the login
// step fails gracefully.
package main

import (
	"fmt"

	"github.com/trancendwear/trancend/app/cart"
	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/app/services"
	"github.com/trancendwear/trancend/app/session"
	"github.com/trancendwear/trancend/config"
	"github.com/trancendwear/trancend/pkg/event"
	"github.com/trancendwear/trancend/pkg/localstore"
	"github.com/trancendwear/trancend/pkg/record"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	store, err := localstore.Open()
	if err != nil {
		panic(err)
	}

	client := record.New(config.BackendURL(), config.BackendPublicURL())
	events := event.New()
	tracker := session.NewTracker(client, store, "trancend:token:demo", events)

	crt := cart.New(store, "trancend:cart:demo", events,
		cart.WithRemote(cart.NewRecordRemote(client, tracker.Identity)),
		cart.WithAuthCheck(tracker.LoggedIn),
	)
	events.Listen(cart.EventChanged, func(payload interface{}) {
		lines := payload.([]models.Line)
		fmt.Printf("cart changed: %d line(s)\n", len(lines))
	})

	catalog := services.NewCatalog(client)

	// Browse. With no backend running these come from the seeds.
	for _, p := range catalog.Featured() {
		fmt.Printf("featured: %-18s %6.2f€\n", p.Name, p.Price)
	}

	// Fill the cart anonymously.
	if tee := catalog.Product("1"); tee != nil {
		noir := &tee.Colors[0]
		crt.Add(*tee, noir, "M", 2)
	}
	fmt.Printf("subtotal: %.2f€ (%d items)\n", crt.Total(), crt.Count())

	// Log in; the anonymous cart merges with the remote one.
	identity, err := tracker.Login("demo@trancendwear.com", "supersecret")
	if err != nil {
		fmt.Println("login failed (is the backend running?):", err)
		return
	}
	fmt.Println("logged in as", identity.Email)
	crt.MergeAfterLogin()

	// Check out.
	orders := services.NewOrders(client, tracker)
	order, err := orders.Create(crt.Lines(), crt.Total(), "12 rue de la Paix, 75002 Paris")
	if err != nil {
		fmt.Println("checkout failed:", err)
		return
	}
	crt.Clear()
	fmt.Printf("order %s submitted, status %s\n", order.ID, order.Status)
}
