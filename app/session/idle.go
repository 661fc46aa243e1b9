package session

import (
	"time"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/pkg/logger"
	"github.com/trancendwear/trancend/pkg/metrics"
)

// Clock abstracts timer creation so idle expiry is testable with virtual
// time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is the subset of *time.Timer the idle machine needs.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Activity records a tracked user input event (pointer move/down, key
// down, touch start, scroll, click). While the machine is armed it resets
// the inactivity window; otherwise it is a no-op.
func (t *Tracker) Activity() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.idleTimer != nil {
		t.idleTimer.Reset(t.window)
	}
}

// armLocked (re)starts the idle timer. At most one timer is ever live:
// arming stops any previous one first. Caller holds t.mu.
func (t *Tracker) armLocked() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.idleTimer = t.clock.AfterFunc(t.window, t.expire)
}

// disarmLocked stops and releases the idle timer. Caller holds t.mu.
func (t *Tracker) disarmLocked() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}
}

// expire fires when the window elapses without activity: it clears the
// session and signals the UI to redirect to the login view with the
// "expired" flag. A session that already became anonymous (logout raced
// the timer) is left alone, so the signal fires at most once.
func (t *Tracker) expire() {
	t.mu.Lock()
	if t.identity == nil {
		t.mu.Unlock()
		return
	}
	t.identity = nil
	t.disarmLocked()
	t.mu.Unlock()

	t.client.ClearToken()
	_ = t.store.Delete(t.key)

	metrics.SessionsExpired.Inc()
	logger.Info("session: idle window elapsed, forcing logout")

	t.events.Fire(EventChanged, (*models.Identity)(nil))
	t.events.Fire(EventExpired, Expiry{RedirectTo: ExpiredRedirect})
}
