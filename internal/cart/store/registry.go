package store

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/snapshot"
)

// KeyPrefix scopes cart snapshots in the shared storage. The full key is
// KeyPrefix + ownerID.
const KeyPrefix = "cart-storage:"

// Registry hands out one Store per owner, rehydrating it from its persisted
// snapshot on first access.
type Registry struct {
	mu        sync.Mutex
	stores    map[string]*Store
	snapshots snapshot.Store
}

func NewRegistry(snapshots snapshot.Store) *Registry {
	return &Registry{stores: map[string]*Store{}, snapshots: snapshots}
}

func (r *Registry) Cart(c context.Context, ownerID string) (*Store, error) {
	r.mu.Lock()
	s, ok := r.stores[ownerID]
	if !ok {
		s = New(KeyPrefix+ownerID, r.snapshots)
		r.stores[ownerID] = s
	}
	r.mu.Unlock()

	if !ok {
		if err := s.Rehydrate(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Watch reconciles in-memory carts with snapshots rewritten by other writers
// sharing the persisted storage. It blocks until the context is done.
func (r *Registry) Watch(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartRegistry Watch").
		Logger()

	changes, err := r.snapshots.Watch(c)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("watching cart snapshots for external changes")
	for {
		select {
		case <-c.Done():
			return c.Err()
		case key, ok := <-changes:
			if !ok {
				return nil
			}
			ownerID, found := strings.CutPrefix(key, KeyPrefix)
			if !found {
				continue
			}
			r.mu.Lock()
			s, known := r.stores[ownerID]
			r.mu.Unlock()
			if !known {
				continue
			}
			lg := logger.With().Str(log.KeyOwnerID, ownerID).Logger()
			lg.Info().Msg("cart snapshot changed externally, rehydrating")
			if err := s.Rehydrate(c); err != nil {
				lg.Error().Err(err).Msg("failed rehydrating cart after external change")
			}
		}
	}
}
