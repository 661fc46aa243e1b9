// Package session tracks the current authenticated identity for one
// client runtime and force-expires it after an inactivity window.
//
// The tracker starts anonymous and not-ready on every session, so the
// first render always matches the server-rendered "logged out" markup.
// RefreshOnStartup resolves the persisted token asynchronously exactly
// once and flips ready — which never flips back.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/pkg/event"
	"github.com/trancendwear/trancend/pkg/localstore"
	"github.com/trancendwear/trancend/pkg/logger"
	"github.com/trancendwear/trancend/pkg/record"
	"github.com/trancendwear/trancend/pkg/token"
)

// Events fired on the runtime's emitter.
const (
	// EventChanged fires after every identity change; payload is the new
	// *models.Identity, nil for logout/expiry.
	EventChanged = "identity.changed"

	// EventExpired fires exactly once per idle expiry; payload is Expiry.
	EventExpired = "session.expired"
)

// Expiry tells the UI layer where to send the user after an idle logout.
type Expiry struct {
	RedirectTo string
}

// ExpiredRedirect is the login route carrying the "expired" flag.
const ExpiredRedirect = "/auth/login?expired=1"

// DefaultIdleWindow is the inactivity window before forced expiry.
const DefaultIdleWindow = 10 * time.Minute

// persisted is the token state mirrored to the local store.
type persisted struct {
	Token    string           `json:"token"`
	Identity *models.Identity `json:"identity,omitempty"`
}

// Tracker holds the identity state machine for one client runtime.
type Tracker struct {
	client *record.Client
	store  localstore.Store
	key    string
	events *event.Emitter

	clock  Clock
	window time.Duration

	mu        sync.Mutex
	identity  *models.Identity
	ready     bool
	idleTimer Timer // non-nil iff the machine is armed

	refreshOnce sync.Once
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock injects a clock; tests use a virtual one.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithIdleWindow overrides the inactivity window.
func WithIdleWindow(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.window = d
		}
	}
}

// NewTracker builds a Tracker persisting its token under key in store and
// announcing changes on events.
func NewTracker(client *record.Client, store localstore.Store, key string, events *event.Emitter, opts ...Option) *Tracker {
	t := &Tracker{
		client: client,
		store:  store,
		key:    key,
		events: events,
		clock:  realClock{},
		window: DefaultIdleWindow,
	}
	for _, apply := range opts {
		apply(t)
	}
	return t
}

// Identity returns the current identity, nil while anonymous.
func (t *Tracker) Identity() *models.Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.identity
}

// Ready reports whether the startup refresh has completed. Identity-
// dependent rendering must wait for it to avoid hydration mismatches.
func (t *Tracker) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready
}

// LoggedIn reports whether an identity is present and its token has not
// lapsed.
func (t *Tracker) LoggedIn() bool {
	return t.Identity() != nil && token.Valid(t.client.Token())
}

// Login exchanges credentials for a session. Errors propagate verbatim so
// the caller can show a field-level message.
func (t *Tracker) Login(email, password string) (*models.Identity, error) {
	res, err := t.client.AuthWithPassword(email, password)
	if err != nil {
		return nil, err
	}

	id := decodeIdentity(res.Record)
	t.persist(res.Token, id)
	t.setIdentity(id)
	return id, nil
}

// Register creates an account then immediately logs in. Same
// error-propagation contract as Login.
func (t *Tracker) Register(email, password, name string) (*models.Identity, error) {
	if err := t.client.CreateAccount(email, password, name); err != nil {
		return nil, err
	}
	return t.Login(email, password)
}

// Logout clears the session synchronously. No remote call is awaited:
// token invalidation is local-only.
func (t *Tracker) Logout() {
	t.client.ClearToken()
	_ = t.store.Delete(t.key)
	t.setIdentity(nil)
}

// RefreshOnStartup validates any persisted session token, exactly once
// per runtime. Ready becomes true in all cases and never toggles back.
func (t *Tracker) RefreshOnStartup() {
	t.refreshOnce.Do(func() {
		defer func() {
			t.mu.Lock()
			t.ready = true
			t.mu.Unlock()
		}()

		var saved persisted
		if !t.store.Get(t.key, &saved) || !token.Valid(saved.Token) {
			return
		}

		t.client.SetToken(saved.Token)
		res, err := t.client.AuthRefresh()
		if err != nil {
			logger.Debug("session: startup refresh rejected", "error", err)
			t.client.ClearToken()
			_ = t.store.Delete(t.key)
			return
		}

		id := decodeIdentity(res.Record)
		t.persist(res.Token, id)
		t.setIdentity(id)
	})
}

// setIdentity swaps the identity, arms or disarms the idle machine, and
// notifies listeners synchronously.
func (t *Tracker) setIdentity(id *models.Identity) {
	t.mu.Lock()
	t.identity = id
	if id != nil {
		t.armLocked()
	} else {
		t.disarmLocked()
	}
	t.mu.Unlock()

	t.events.Fire(EventChanged, id)
}

func (t *Tracker) persist(tok string, id *models.Identity) {
	if err := t.store.Put(t.key, persisted{Token: tok, Identity: id}); err != nil {
		logger.Warn("session: persist token", "error", err)
	}
}

func decodeIdentity(raw json.RawMessage) *models.Identity {
	var id models.Identity
	if err := json.Unmarshal(raw, &id); err != nil || id.ID == "" {
		return nil
	}
	return &id
}
