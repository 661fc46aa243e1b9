package cart

import (
	"encoding/json"
	"fmt"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/pkg/logger"
	"github.com/trancendwear/trancend/pkg/metrics"
	"github.com/trancendwear/trancend/pkg/record"
)

// CartsCollection is the backend collection holding one record per user.
const CartsCollection = "carts"

// cartRecord is the wire shape of a cart record. Items is a JSON-encoded
// line list stored in a plain text field.
type cartRecord struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Items string `json:"items"`
}

// RecordRemote syncs cart lines to the user's record in the carts
// collection, create-if-absent.
type RecordRemote struct {
	client   *record.Client
	identity func() *models.Identity
}

// NewRecordRemote builds a RecordRemote resolving the owning user through
// identity on every call, so a mid-flight logout turns pushes into no-ops.
func NewRecordRemote(client *record.Client, identity func() *models.Identity) *RecordRemote {
	return &RecordRemote{client: client, identity: identity}
}

// Push replaces the user's remote line list with lines. Anonymous calls
// are no-ops.
func (r *RecordRemote) Push(lines []models.Line) error {
	id := r.identity()
	if id == nil {
		return nil
	}

	items, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	body := map[string]string{"user": id.ID, "items": string(items)}

	existing, err := record.FirstListItem[cartRecord](r.client, CartsCollection, userFilter(id.ID))
	if err != nil {
		if record.StatusOf(err) != 404 {
			return err
		}
		_, err = record.Create[cartRecord](r.client, CartsCollection, body)
		return err
	}

	_, err = record.Update[cartRecord](r.client, CartsCollection, existing.ID, body)
	return err
}

// Load fetches the user's remote line list; empty when no record exists,
// the session is anonymous, or the stored payload does not decode.
func (r *RecordRemote) Load() ([]models.Line, error) {
	id := r.identity()
	if id == nil {
		return nil, nil
	}

	rec, err := record.FirstListItem[cartRecord](r.client, CartsCollection, userFilter(id.ID))
	if err != nil {
		if record.StatusOf(err) == 404 {
			return nil, nil
		}
		return nil, err
	}

	if rec.Items == "" {
		return nil, nil
	}
	var lines []models.Line
	if err := json.Unmarshal([]byte(rec.Items), &lines); err != nil {
		logger.Warn("cart: remote items field does not decode", "error", err)
		return nil, nil
	}
	return lines, nil
}

func userFilter(userID string) string {
	return fmt.Sprintf("user=%q", userID)
}

// schedulePush hands the full line snapshot to the worker pool. Loss is
// tolerable: every push carries the complete list, so the next mutation
// repairs a dropped one.
func (s *Store) schedulePush(lines []models.Line) {
	task := func() {
		if err := s.remote.Push(lines); err != nil {
			metrics.CartSyncs.WithLabelValues("failed").Inc()
			logger.Warn("cart: remote sync failed", "error", err)
			return
		}
		metrics.CartSyncs.WithLabelValues("ok").Inc()
	}

	// Without a pool, pushes run inline. Production wiring always
	// supplies one so mutations never wait on the network.
	if s.pool == nil {
		task()
		return
	}
	if err := s.pool.Submit(task); err != nil {
		metrics.CartSyncs.WithLabelValues("dropped").Inc()
		logger.Warn("cart: sync pool saturated, push dropped", "error", err)
	}
}
