// Package snapshot persists small JSON state snapshots under stable string
// keys. The cart and the auth session mirror each own one named entry per
// owner. Writes are best-effort: callers keep their in-memory state
// authoritative when persistence fails.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
)

// Version tags every persisted envelope so future layout changes can migrate
// old snapshots instead of misreading them.
const Version = 1

var ErrVersionMismatch = errors.New("snapshot version mismatch")

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Store is the persistence boundary for state snapshots.
//
// Watch reports keys whose snapshots were rewritten by another writer sharing
// the same backing storage, so an in-memory owner can reconcile instead of
// assuming it is the only writer.
type Store interface {
	Save(c context.Context, key string, value interface{}) error
	Load(c context.Context, key string, dest interface{}) (bool, error)
	Delete(c context.Context, key string) error
	Watch(c context.Context) (<-chan string, error)
}
