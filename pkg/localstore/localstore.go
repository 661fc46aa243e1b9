// Package localstore is the durable client-state store: the server-side
// stand-in for the browser's local storage. Carts and session tokens are
// mirrored here keyed by a fixed namespace per device session, so a full
// page reload (or service restart) restores them.
//
// Two drivers exist: file (one JSON document per key on disk, the default)
// and redis. Both follow the same contract: Get reports a miss — never an
// error — for absent, unreadable, or corrupt payloads, so a damaged store
// yields an empty cart rather than a crash.
package localstore

import (
	"fmt"

	"github.com/trancendwear/trancend/config"
)

// Store persists JSON-serialisable values under string keys.
type Store interface {
	// Get unmarshals the value stored under key into dest and reports
	// whether a usable value was found.
	Get(key string, dest interface{}) bool

	// Put stores value under key, replacing any previous value.
	Put(key string, value interface{}) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
}

// Open builds the Store selected by STORE_DRIVER.
func Open() (Store, error) {
	switch config.StoreDriver() {
	case "redis":
		return OpenRedis(config.RedisAddr(), config.RedisPassword())
	case "file":
		return OpenFile(config.StoreFileRoot())
	default:
		return nil, fmt.Errorf("localstore: unknown driver %q", config.StoreDriver())
	}
}
