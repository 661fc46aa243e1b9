// Package server boots the storefront gateway: config, log shipping,
// the per-session state store, the runtime manager, and the HTTP stack.
package server

import (
	"net/http"

	"github.com/trancendwear/trancend/app/cart"
	"github.com/trancendwear/trancend/app/routes"
	"github.com/trancendwear/trancend/app/session"
	"github.com/trancendwear/trancend/config"
	"github.com/trancendwear/trancend/internal/runtime"
	"github.com/trancendwear/trancend/pkg/localstore"
	"github.com/trancendwear/trancend/pkg/logger"
	"github.com/trancendwear/trancend/pkg/metrics"
	"github.com/trancendwear/trancend/pkg/middleware"
	"github.com/trancendwear/trancend/pkg/reqid"
	"github.com/trancendwear/trancend/pkg/router"
	"github.com/trancendwear/trancend/pkg/workerpool"
	"github.com/trancendwear/trancend/pkg/ws"
)

// Start blocks serving the gateway until the listener fails.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.MongoLogURI(); uri != "" {
		mh, err := logger.NewMongoHandler(uri, "trancend", "logs")
		if err != nil {
			logger.Warn("mongo log shipping disabled", "error", err)
		} else {
			logger.Attach(mh)
			defer mh.Close()
		}
	}

	store, err := localstore.Open()
	if err != nil {
		return err
	}

	pool := workerpool.New(16)
	defer pool.Shutdown()

	hub := ws.NewHub()
	go hub.Run()

	manager := runtime.NewManager(store, pool)
	manager.OnRuntime = func(rt *runtime.Runtime) {
		bridge(hub, rt)
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		manager.Middleware(),
	)

	if err := routes.RegisterAPI(r, hub); err != nil {
		return err
	}

	addr := ":" + config.AppPort()
	logger.Info("storefront gateway listening", "addr", addr, "store", config.StoreDriver())
	return http.ListenAndServe(addr, r.Handler())
}

// bridge forwards a runtime's events to its session's WebSocket clients.
func bridge(hub *ws.Hub, rt *runtime.Runtime) {
	id := rt.ID

	rt.Events.Listen(session.EventChanged, func(payload interface{}) {
		hub.Publish(id, session.EventChanged, payload)
	})
	rt.Events.Listen(session.EventExpired, func(payload interface{}) {
		hub.Publish(id, session.EventExpired, payload)
	})

	rt.Events.Listen(cart.EventChanged, func(payload interface{}) {
		hub.Publish(id, cart.EventChanged, payload)
	})
	rt.Events.Listen(cart.EventOpened, func(payload interface{}) {
		hub.Publish(id, cart.EventOpened, payload)
	})
}
