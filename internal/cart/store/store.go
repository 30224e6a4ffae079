// Package store owns the cart state. A Store is the single source of truth
// for one owner's cart: UI surfaces read it and subscribe to it, mutations go
// through it, and every mutation is snapshotted synchronously after the
// in-memory change.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/snapshot"
)

var tracer = otel.Tracer("cart/store")

// Product carries the attributes copied onto a new line when a product is
// added. Quantity is never part of it; adding always means +1.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef"`
}

// Line is one distinct product in the cart. Quantity is always >= 1; a line
// reaching zero is removed, never retained.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"imageRef"`
}

// Subtotal returns unitPrice x quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Store struct {
	mu        sync.Mutex
	key       string
	lines     []Line
	snapshots snapshot.Store
	observers map[int]func()
	nextObs   int
}

func New(key string, snapshots snapshot.Store) *Store {
	return &Store{key: key, snapshots: snapshots, observers: map[int]func(){}}
}

// Rehydrate replaces the in-memory lines with the persisted snapshot, if one
// exists. Called on first access and whenever the snapshot is rewritten by
// another writer sharing the storage.
func (s *Store) Rehydrate(c context.Context) error {
	c, span := tracer.Start(c, "CartStore Rehydrate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Rehydrate").
		Str(log.KeySnapshotKey, s.key).
		Logger()

	lines := []Line{}
	found, err := s.snapshots.Load(c, s.key, &lines)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if !found {
		return nil
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	s.notify()
	logger.Info().Int(log.KeyCartItems, len(lines)).Msg("rehydrated cart from snapshot")
	return nil
}

// AddItem merges the product into the cart: an existing line gains quantity
// +1, otherwise a new line starts at quantity 1. It never fails.
func (s *Store) AddItem(c context.Context, p Product) {
	c, span := tracer.Start(c, "CartStore AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore AddItem").
		Str(log.KeyProductID, p.ID).
		Logger()

	s.mu.Lock()
	merged := false
	for i, line := range s.lines {
		if line.ProductID == p.ID {
			s.lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  1,
			ImageRef:  p.ImageRef,
		})
	}
	s.mu.Unlock()

	logger.Info().Bool("merged", merged).Msg("added item to cart")
	s.persist(c)
	s.notify()
}

// RemoveItem removes the line with the given product id. Removing an absent
// id is a no-op, not an error.
func (s *Store) RemoveItem(c context.Context, productID string) {
	c, span := tracer.Start(c, "CartStore RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore RemoveItem").
		Str(log.KeyProductID, productID).
		Logger()

	s.mu.Lock()
	removed := false
	for i, line := range s.lines {
		if line.ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if !removed {
		logger.Info().Msg("item not in cart, nothing removed")
		return
	}
	logger.Info().Msg("removed item from cart")
	s.persist(c)
	s.notify()
}

// UpdateQuantity sets the line's quantity. Quantity zero is removal. Callers
// are expected to clamp negative values to zero before invoking.
func (s *Store) UpdateQuantity(c context.Context, productID string, quantity int) {
	c, span := tracer.Start(c, "CartStore UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore UpdateQuantity").
		Str(log.KeyProductID, productID).
		Int(log.KeyQuantity, quantity).
		Logger()

	if quantity == 0 {
		logger.Info().Msg("quantity zero, removing item")
		s.RemoveItem(c, productID)
		return
	}

	s.mu.Lock()
	updated := false
	for i, line := range s.lines {
		if line.ProductID == productID {
			s.lines[i].Quantity = quantity
			updated = true
			break
		}
	}
	s.mu.Unlock()

	if !updated {
		logger.Info().Msg("item not in cart, nothing updated")
		return
	}
	logger.Info().Msg("updated item quantity")
	s.persist(c)
	s.notify()
}

// Clear empties all lines unconditionally.
func (s *Store) Clear(c context.Context) {
	c, span := tracer.Start(c, "CartStore Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Clear").
		Logger()

	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	logger.Info().Msg("cleared cart")
	s.persist(c)
	s.notify()
}

// Items returns the lines in stable insertion order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Line, len(s.lines))
	copy(items, s.lines)
	return items
}

// Total recomputes sum(unitPrice x quantity) over the current lines on every
// call. It is never cached so it cannot drift from the lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Subscribe registers an observer invoked after every mutation. The returned
// function unsubscribes it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// persist writes the current lines best-effort: a storage failure is logged
// and the in-memory state stays authoritative for this session.
func (s *Store) persist(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore persist").
		Str(log.KeySnapshotKey, s.key).
		Logger()

	s.mu.Lock()
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	s.mu.Unlock()

	if err := s.snapshots.Save(c, s.key, lines); err != nil {
		logger.Error().Err(err).Msg("failed persisting cart snapshot, in-memory state remains authoritative")
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	observers := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}
