// Package cart holds the shopping cart state for one client runtime.
//
// The line list is the source of truth during an active session: every
// mutation is mirrored to the durable local store (so a reload restores
// the cart) and, while the session is authenticated, pushed to the
// identity's remote cart record fire-and-forget. Remote failures are
// logged, never surfaced, and never roll back local state.
package cart

import (
	"sync"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/pkg/collection"
	"github.com/trancendwear/trancend/pkg/event"
	"github.com/trancendwear/trancend/pkg/localstore"
	"github.com/trancendwear/trancend/pkg/logger"
)

// Events fired on the runtime's emitter.
const (
	// EventChanged fires after every line mutation; payload []models.Line.
	EventChanged = "cart.changed"

	// EventOpened asks the UI to open the cart drawer; fired by Add.
	EventOpened = "cart.opened"
)

// Remote is the identity's remote cart record.
type Remote interface {
	// Push replaces the remote line list with lines (create-if-absent).
	Push(lines []models.Line) error

	// Load fetches the remote line list; empty when none exists.
	Load() ([]models.Line, error)
}

// Pool runs fire-and-forget tasks; satisfied by workerpool.Pool.
type Pool interface {
	Submit(task func()) error
}

// Store is the cart state store.
type Store struct {
	mu      sync.Mutex
	lines   []models.Line
	syncing bool

	store  localstore.Store
	key    string
	events *event.Emitter

	remote Remote
	authed func() bool
	pool   Pool
}

// Option configures a Store.
type Option func(*Store)

// WithRemote wires the remote cart record used for sync and merge.
func WithRemote(r Remote) Option {
	return func(s *Store) { s.remote = r }
}

// WithAuthCheck wires the predicate deciding whether sync pushes run.
func WithAuthCheck(fn func() bool) Option {
	return func(s *Store) { s.authed = fn }
}

// WithPool runs sync pushes on a bounded worker pool instead of ad-hoc
// goroutines.
func WithPool(p Pool) Option {
	return func(s *Store) { s.pool = p }
}

// New builds a Store persisting under key, restoring any previously
// persisted lines. A corrupt or missing payload yields an empty cart.
func New(store localstore.Store, key string, events *event.Emitter, opts ...Option) *Store {
	s := &Store{
		store:  store,
		key:    key,
		events: events,
		authed: func() bool { return false },
	}
	for _, apply := range opts {
		apply(s)
	}

	var saved []models.Line
	if store.Get(key, &saved) {
		s.lines = saved
	}
	return s
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []models.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLinesLocked()
}

// Syncing reports whether a merge is in flight.
func (s *Store) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// Add puts qty of product (in the chosen color and size) into the cart.
// A line with the same uniqueness key has its quantity incremented
// instead of a duplicate being appended. The cart drawer is asked to
// open.
func (s *Store) Add(product models.Product, color *models.Color, size string, qty int) {
	if qty < 1 {
		qty = 1
	}
	if size == "" {
		size = models.SizeOne
	}

	line := models.Line{Product: product, Color: color, Size: size, Quantity: qty}
	key := line.Key()

	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, line)
	}
	s.mu.Unlock()

	s.afterMutation()
	s.events.Fire(EventOpened, nil)
}

// Remove deletes the line matching the uniqueness key; no-op if absent.
func (s *Store) Remove(productID, size, colorName string) {
	key := models.LineKey{ProductID: productID, Size: size, ColorName: colorName}

	s.mu.Lock()
	s.lines = collection.Filter(s.lines, func(l models.Line) bool {
		return l.Key() != key
	})
	s.mu.Unlock()

	s.afterMutation()
}

// SetQuantity replaces the matching line's quantity; qty <= 0 removes the
// line, so no line ever carries a non-positive quantity.
func (s *Store) SetQuantity(productID, size, colorName string, qty int) {
	if qty <= 0 {
		s.Remove(productID, size, colorName)
		return
	}

	key := models.LineKey{ProductID: productID, Size: size, ColorName: colorName}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity = qty
			break
		}
	}
	s.mu.Unlock()

	s.afterMutation()
}

// Clear empties the cart. Called after a successful order submission.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.afterMutation()
}

// Total is the sum of price × quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.Sum(s.lines, models.Line.Subtotal)
}

// Count is the total number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// MergeAfterLogin reconciles the local anonymous cart with the identity's
// remote cart: remote lines whose uniqueness key is absent locally are
// appended; on key collision the local line wins. The merge fetches once
// and then syncs the result back — calling it twice against the
// post-merge remote state adds nothing, though a second call racing the
// sync-back can observe the pre-merge remote copy (known limitation,
// last write wins).
func (s *Store) MergeAfterLogin() {
	if s.remote == nil {
		return
	}

	s.mu.Lock()
	s.syncing = true
	s.mu.Unlock()

	remoteLines, err := s.remote.Load()
	if err != nil {
		logger.Warn("cart: merge fetch failed", "error", err)
		remoteLines = nil
	}

	s.mu.Lock()
	present := make(map[models.LineKey]struct{}, len(s.lines))
	for _, l := range s.lines {
		present[l.Key()] = struct{}{}
	}
	for _, rl := range remoteLines {
		if _, ok := present[rl.Key()]; !ok {
			s.lines = append(s.lines, rl)
		}
	}
	s.syncing = false
	s.mu.Unlock()

	s.afterMutation()
}

// afterMutation persists the lines, notifies listeners synchronously, and
// schedules a remote push when the session is authenticated.
func (s *Store) afterMutation() {
	lines := s.Lines()

	if err := s.store.Put(s.key, lines); err != nil {
		logger.Warn("cart: persist failed", "error", err)
	}

	s.events.Fire(EventChanged, lines)

	if s.remote != nil && s.authed() {
		s.schedulePush(lines)
	}
}

func (s *Store) copyLinesLocked() []models.Line {
	out := make([]models.Line, len(s.lines))
	copy(out, s.lines)
	return out
}
