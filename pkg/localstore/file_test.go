package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	type payload struct {
		Name string `json:"name"`
		Qty  int    `json:"qty"`
	}

	require.NoError(t, store.Put("trancend:cart:abc", payload{Name: "VOID TEE", Qty: 2}))

	var got payload
	assert.True(t, store.Get("trancend:cart:abc", &got))
	assert.Equal(t, payload{Name: "VOID TEE", Qty: 2}, got)
}

func TestFileStoreMissingKeyIsMiss(t *testing.T) {
	store, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	var got map[string]string
	assert.False(t, store.Get("nope", &got))
}

func TestFileStoreCorruptPayloadIsMiss(t *testing.T) {
	root := t.TempDir()
	store, err := OpenFile(root)
	require.NoError(t, err)

	require.NoError(t, store.Put("cart", []int{1, 2, 3}))

	// Scribble over the stored document.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(root, entries[0].Name()), []byte("{not json"), 0o644))

	var got []int
	assert.False(t, store.Get("cart", &got))
}

func TestFileStoreDeleteIsIdempotent(t *testing.T) {
	store, err := OpenFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("k", "v"))
	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("k"))

	var got string
	assert.False(t, store.Get("k", &got))
}
