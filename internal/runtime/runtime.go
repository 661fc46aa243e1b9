// Package runtime assembles one storefront client runtime per device
// session: a backend client with its own auth token, an event emitter,
// the session tracker, the cart store, and the data services — the same
// wiring a browser tab gets, held server-side and resolved by cookie.
package runtime

import (
	"github.com/trancendwear/trancend/app/cart"
	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/app/services"
	"github.com/trancendwear/trancend/app/session"
	"github.com/trancendwear/trancend/config"
	"github.com/trancendwear/trancend/pkg/event"
	"github.com/trancendwear/trancend/pkg/localstore"
	"github.com/trancendwear/trancend/pkg/record"
)

// Runtime is the full per-session object graph.
type Runtime struct {
	ID      string
	Client  *record.Client
	Events  *event.Emitter
	Session *session.Tracker
	Cart    *cart.Store
	Catalog *services.Catalog
	Orders  *services.Orders
}

func newRuntime(id string, store localstore.Store, pool cart.Pool) *Runtime {
	client := record.New(config.BackendURL(), config.BackendPublicURL())
	events := event.New()

	tracker := session.NewTracker(client, store, "trancend:token:"+id, events,
		session.WithIdleWindow(config.IdleTimeout()))

	remote := cart.NewRecordRemote(client, tracker.Identity)
	crt := cart.New(store, "trancend:cart:"+id, events,
		cart.WithRemote(remote),
		cart.WithAuthCheck(tracker.LoggedIn),
		cart.WithPool(pool),
	)

	// Any transition to a logged-in identity (password login or startup
	// refresh) reconciles the anonymous cart with the remote one.
	events.Listen(session.EventChanged, func(payload interface{}) {
		if identity, _ := payload.(*models.Identity); identity != nil {
			go crt.MergeAfterLogin()
		}
	})

	return &Runtime{
		ID:      id,
		Client:  client,
		Events:  events,
		Session: tracker,
		Cart:    crt,
		Catalog: services.NewCatalog(client),
		Orders:  services.NewOrders(client, tracker),
	}
}
