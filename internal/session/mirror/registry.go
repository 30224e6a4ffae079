package mirror

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/snapshot"
	"github.com/smartaero/storefront/internal/session/identity"
)

// KeyPrefix scopes session snapshots in the shared storage. The full key is
// KeyPrefix + deviceID.
const KeyPrefix = "auth-storage:"

// Registry hands out one Mirror per device, rehydrating it from its persisted
// snapshot on first access.
type Registry struct {
	mu        sync.Mutex
	mirrors   map[string]*Mirror
	provider  identity.Provider
	snapshots snapshot.Store
}

func NewRegistry(provider identity.Provider, snapshots snapshot.Store) *Registry {
	return &Registry{
		mirrors:   map[string]*Mirror{},
		provider:  provider,
		snapshots: snapshots,
	}
}

func (r *Registry) Mirror(c context.Context, deviceID string) (*Mirror, error) {
	r.mu.Lock()
	m, ok := r.mirrors[deviceID]
	if !ok {
		m = New(KeyPrefix+deviceID, r.provider, r.snapshots)
		r.mirrors[deviceID] = m
	}
	r.mu.Unlock()

	if !ok {
		if err := m.Rehydrate(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Watch reconciles in-memory mirrors with snapshots rewritten by other
// writers sharing the persisted storage. It blocks until the context is done.
func (r *Registry) Watch(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SessionRegistry Watch").
		Logger()

	changes, err := r.snapshots.Watch(c)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("watching session snapshots for external changes")
	for {
		select {
		case <-c.Done():
			return c.Err()
		case key, ok := <-changes:
			if !ok {
				return nil
			}
			deviceID, found := strings.CutPrefix(key, KeyPrefix)
			if !found {
				continue
			}
			r.mu.Lock()
			m, known := r.mirrors[deviceID]
			r.mu.Unlock()
			if !known {
				continue
			}
			lg := logger.With().Str(log.KeyDeviceID, deviceID).Logger()
			lg.Info().Msg("session snapshot changed externally, rehydrating")
			if err := m.Rehydrate(c); err != nil {
				lg.Error().Err(err).Msg("failed rehydrating session after external change")
			}
		}
	}
}
