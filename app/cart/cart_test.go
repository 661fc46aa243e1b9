package cart

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/pkg/event"
	"github.com/trancendwear/trancend/pkg/record"
	"github.com/trancendwear/trancend/pkg/testkit"
)

var (
	noir  = &models.Color{Name: "Noir", Hex: "#000000"}
	blanc = &models.Color{Name: "Blanc cassé", Hex: "#F5F1E8"}
)

func tee(price float64) models.Product {
	return models.Product{ID: "p1", Name: "Oversized Tee", Price: price}
}

func hoodie() models.Product {
	return models.Product{ID: "p2", Name: "Heavy Hoodie", Price: 89}
}

func newStore(t *testing.T, opts ...Option) (*Store, *testkit.MemStore, *event.Emitter) {
	t.Helper()
	ms := testkit.NewMemStore()
	ev := event.New()
	return New(ms, "trancend:cart:s1", ev, opts...), ms, ev
}

func TestAddMergesLinesWithSameKey(t *testing.T) {
	s, _, _ := newStore(t)

	s.Add(tee(45), noir, "M", 1)
	s.Add(tee(45), noir, "M", 2)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, s.Count())
}

func TestAddDistinguishesSizeAndColor(t *testing.T) {
	s, _, _ := newStore(t)

	s.Add(tee(45), noir, "M", 1)
	s.Add(tee(45), noir, "L", 1)
	s.Add(tee(45), blanc, "M", 1)

	assert.Len(t, s.Lines(), 3)
}

func TestAddDefaultsSizeAndQuantity(t *testing.T) {
	s, _, _ := newStore(t)

	s.Add(tee(45), nil, "", 0)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, models.SizeOne, lines[0].Size)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestAddOpensCartAndNotifiesChange(t *testing.T) {
	s, _, ev := newStore(t)

	opened, changed := 0, 0
	ev.Listen(EventOpened, func(interface{}) { opened++ })
	ev.Listen(EventChanged, func(interface{}) { changed++ })

	s.Add(tee(45), noir, "M", 1)

	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, changed)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(tee(45), noir, "M", 2)

	s.SetQuantity("p1", "M", "Noir", 0)

	assert.Empty(t, s.Lines())
}

func TestSetQuantityNegativeRemovesLine(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(tee(45), noir, "M", 2)

	s.SetQuantity("p1", "M", "Noir", -3)

	assert.Empty(t, s.Lines())
}

func TestSetQuantityReplacesCount(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(tee(45), noir, "M", 2)

	s.SetQuantity("p1", "M", "Noir", 5)

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 5, s.Lines()[0].Quantity)
}

func TestRemoveIsKeyExact(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(tee(45), noir, "M", 1)
	s.Add(tee(45), noir, "L", 1)

	s.Remove("p1", "M", "Noir")

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "L", lines[0].Size)
}

func TestTotalAndCount(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(tee(45), noir, "M", 2)
	s.Add(hoodie(), nil, "L", 1)

	assert.InDelta(t, 179, s.Total(), 1e-9)
	assert.Equal(t, 3, s.Count())
}

func TestMutationsPersistAndRestore(t *testing.T) {
	s, ms, _ := newStore(t)
	s.Add(tee(45), noir, "M", 2)
	s.Add(hoodie(), nil, "L", 1)
	s.Remove("p2", "L", "")

	restored := New(ms, "trancend:cart:s1", event.New())

	lines := restored.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCorruptPersistedPayloadYieldsEmptyCart(t *testing.T) {
	ms := testkit.NewMemStore()
	ms.SetRaw("trancend:cart:s1", []byte("{not json"))

	s := New(ms, "trancend:cart:s1", event.New())

	assert.Empty(t, s.Lines())
}

func TestClearEmptiesCart(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(tee(45), noir, "M", 2)

	s.Clear()

	assert.Empty(t, s.Lines())
	assert.Zero(t, s.Count())
}

// remoteStub is an in-memory Remote recording pushes.
type remoteStub struct {
	mu     sync.Mutex
	lines  []models.Line
	pushes int
	err    error
}

func (r *remoteStub) Push(lines []models.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.lines = append([]models.Line(nil), lines...)
	r.pushes++
	return nil
}

func (r *remoteStub) Load() ([]models.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]models.Line(nil), r.lines...), nil
}

func TestMutationsSyncRemotelyWhileAuthenticated(t *testing.T) {
	remote := &remoteStub{}
	s, _, _ := newStore(t,
		WithRemote(remote),
		WithAuthCheck(func() bool { return true }))

	s.Add(tee(45), noir, "M", 1)
	s.SetQuantity("p1", "M", "Noir", 3)

	assert.Equal(t, 2, remote.pushes)
	require.Len(t, remote.lines, 1)
	assert.Equal(t, 3, remote.lines[0].Quantity)
}

func TestAnonymousMutationsDoNotSync(t *testing.T) {
	remote := &remoteStub{}
	s, _, _ := newStore(t,
		WithRemote(remote),
		WithAuthCheck(func() bool { return false }))

	s.Add(tee(45), noir, "M", 1)

	assert.Zero(t, remote.pushes)
}

func TestSyncFailureDoesNotTouchLocalState(t *testing.T) {
	remote := &remoteStub{err: errors.New("backend down")}
	s, _, _ := newStore(t,
		WithRemote(remote),
		WithAuthCheck(func() bool { return true }))

	s.Add(tee(45), noir, "M", 1)

	require.Len(t, s.Lines(), 1)
}

func TestMergeAfterLoginAppendsMissingKeysOnly(t *testing.T) {
	remote := &remoteStub{lines: []models.Line{
		{Product: tee(45), Color: noir, Size: "M", Quantity: 9},
		{Product: hoodie(), Size: "L", Quantity: 1},
	}}
	s, _, _ := newStore(t,
		WithRemote(remote),
		WithAuthCheck(func() bool { return true }))
	s.Add(tee(45), noir, "M", 2)

	s.MergeAfterLogin()

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity, "local line wins the key collision")
	assert.Equal(t, "p2", lines[1].Product.ID)
	assert.False(t, s.Syncing())
}

func TestMergeAfterLoginIsIdempotentAgainstMergedRemote(t *testing.T) {
	remote := &remoteStub{lines: []models.Line{
		{Product: hoodie(), Size: "L", Quantity: 1},
	}}
	s, _, _ := newStore(t,
		WithRemote(remote),
		WithAuthCheck(func() bool { return true }))
	s.Add(tee(45), noir, "M", 2)

	s.MergeAfterLogin()
	first := s.Lines()
	s.MergeAfterLogin()

	assert.Equal(t, first, s.Lines())
}

func TestMergeAfterLoginSyncsMergedResultBack(t *testing.T) {
	remote := &remoteStub{lines: []models.Line{
		{Product: hoodie(), Size: "L", Quantity: 1},
	}}
	s, _, _ := newStore(t,
		WithRemote(remote),
		WithAuthCheck(func() bool { return true }))
	s.Add(tee(45), noir, "M", 2)

	s.MergeAfterLogin()

	require.Len(t, remote.lines, 2)
}

func TestMergeFetchFailureKeepsLocalCart(t *testing.T) {
	remote := &remoteStub{err: errors.New("backend down")}
	s, _, _ := newStore(t,
		WithRemote(remote),
		WithAuthCheck(func() bool { return true }))
	s.Add(tee(45), noir, "M", 2)

	s.MergeAfterLogin()

	require.Len(t, s.Lines(), 1)
	assert.False(t, s.Syncing())
}

func TestRecordRemotePushCreatesWhenAbsent(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/carts/records").
		ReplyJSON(200, map[string]interface{}{
			"page": 1, "perPage": 200, "totalPages": 1, "items": []cartRecord{},
		})
	mt.On("POST", "/api/collections/carts/records").
		ReplyJSON(200, cartRecord{ID: "c1", User: "u1"})

	c := record.New("http://backend.test", "")
	r := NewRecordRemote(c, func() *models.Identity { return &models.Identity{ID: "u1"} })

	err := r.Push([]models.Line{{Product: tee(45), Size: "M", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, mt.CallCount("POST", "/api/collections/carts/records"))
}

func TestRecordRemotePushUpdatesExistingRecord(t *testing.T) {
	mt := testkit.Install(t)
	mt.On("GET", "/api/collections/carts/records").
		ReplyJSON(200, map[string]interface{}{
			"page": 1, "perPage": 200, "totalPages": 1,
			"items": []cartRecord{{ID: "c1", User: "u1", Items: "[]"}},
		})
	mt.On("PATCH", "/api/collections/carts/records/c1").
		ReplyJSON(200, cartRecord{ID: "c1", User: "u1"})

	c := record.New("http://backend.test", "")
	r := NewRecordRemote(c, func() *models.Identity { return &models.Identity{ID: "u1"} })

	err := r.Push([]models.Line{{Product: tee(45), Size: "M", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, mt.CallCount("PATCH", "/api/collections/carts/records/c1"))
}

func TestRecordRemoteAnonymousIsNoOp(t *testing.T) {
	mt := testkit.Install(t)

	c := record.New("http://backend.test", "")
	r := NewRecordRemote(c, func() *models.Identity { return nil })

	require.NoError(t, r.Push([]models.Line{{Product: tee(45), Quantity: 1}}))
	lines, err := r.Load()
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 0, mt.CallCount("", ""))
}

func TestRecordRemoteLoadDecodesItemsField(t *testing.T) {
	mt := testkit.Install(t)
	items, err := json.Marshal([]models.Line{{Product: hoodie(), Size: "L", Quantity: 2}})
	require.NoError(t, err)
	mt.On("GET", "/api/collections/carts/records").
		ReplyJSON(200, map[string]interface{}{
			"page": 1, "perPage": 200, "totalPages": 1,
			"items": []cartRecord{{ID: "c1", User: "u1", Items: string(items)}},
		})

	c := record.New("http://backend.test", "")
	r := NewRecordRemote(c, func() *models.Identity { return &models.Identity{ID: "u1"} })

	lines, err := r.Load()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
}
