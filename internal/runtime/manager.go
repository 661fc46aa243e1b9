package runtime

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/trancendwear/trancend/app/cart"
	"github.com/trancendwear/trancend/pkg/localstore"
)

// CookieName carries the device-session id.
const CookieName = "trancend_session"

type ctxKey struct{}

// Manager resolves the runtime for each request by session cookie,
// creating one on first sight of a device.
type Manager struct {
	mu       sync.Mutex
	runtimes map[string]*Runtime

	store localstore.Store
	pool  cart.Pool

	// OnRuntime, when set before serving, runs once for every freshly
	// created runtime. The server uses it to bridge runtime events to
	// the WebSocket hub.
	OnRuntime func(*Runtime)
}

// NewManager builds a Manager persisting per-session state in store and
// running cart sync pushes on pool.
func NewManager(store localstore.Store, pool cart.Pool) *Manager {
	return &Manager{
		runtimes: map[string]*Runtime{},
		store:    store,
		pool:     pool,
	}
}

// newID generates a cryptographically random 32-byte hex session id.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Resolve returns the request's runtime, minting a session cookie when
// the device has none. The startup token refresh is kicked off on first
// resolution; callers gate identity-dependent output on Session.Ready.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (*Runtime, error) {
	id := ""
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		id = cookie.Value
	}

	if id == "" {
		fresh, err := newID()
		if err != nil {
			return nil, err
		}
		id = fresh
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	m.mu.Lock()
	rt, ok := m.runtimes[id]
	if !ok {
		rt = newRuntime(id, m.store, m.pool)
		m.runtimes[id] = rt
	}
	m.mu.Unlock()

	if !ok {
		if m.OnRuntime != nil {
			m.OnRuntime(rt)
		}
		go rt.Session.RefreshOnStartup()
	}
	return rt, nil
}

// Middleware injects the runtime into the request context and counts the
// request as user activity, resetting the idle window.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rt, err := m.Resolve(w, r)
			if err != nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			rt.Session.Activity()

			ctx := context.WithValue(r.Context(), ctxKey{}, rt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the runtime placed by Middleware, nil outside it.
func FromCtx(r *http.Request) *Runtime {
	return FromContext(r.Context())
}

// FromContext is FromCtx for code that only holds a context, like
// GraphQL resolvers.
func FromContext(ctx context.Context) *Runtime {
	rt, _ := ctx.Value(ctxKey{}).(*Runtime)
	return rt
}

// Drop forgets a session's runtime; its persisted state stays in the
// local store until the keys are overwritten.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.runtimes, id)
	m.mu.Unlock()
}
