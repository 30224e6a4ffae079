// Package mirror keeps a local reflection of the authentication state owned
// by the external identity provider. The mirror is never the source of truth:
// it only transitions on events the provider emits, plus a local sign out
// that clears it unconditionally.
package mirror

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/snapshot"
	"github.com/smartaero/storefront/internal/session/identity"
)

var tracer = otel.Tracer("session/mirror")

// EventKind is one of the provider-emitted session transitions.
type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventTokenRefreshed EventKind = "token_refreshed"
	EventSignedOut      EventKind = "signed_out"
)

type User struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Role     string            `json:"role"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type TokenHandle struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// Event is the payload the provider delivers. User and Token are only
// meaningful for signed_in; token_refreshed carries Token alone.
type Event struct {
	Kind  EventKind    `json:"kind"`
	User  *User        `json:"user,omitempty"`
	Token *TokenHandle `json:"token,omitempty"`
}

type persistedSession struct {
	User  *User        `json:"user"`
	Token *TokenHandle `json:"token"`
}

// Mirror reflects one device's session. User and token are always set or
// cleared together; a mirror with a user but no token does not exist.
type Mirror struct {
	mu        sync.Mutex
	key       string
	user      *User
	token     *TokenHandle
	provider  identity.Provider
	snapshots snapshot.Store
	observers map[int]func()
	nextObs   int
}

func New(key string, provider identity.Provider, snapshots snapshot.Store) *Mirror {
	return &Mirror{
		key:       key,
		provider:  provider,
		snapshots: snapshots,
		observers: map[int]func(){},
	}
}

// Rehydrate replaces the mirror's state with the persisted snapshot, if one
// exists.
func (m *Mirror) Rehydrate(c context.Context) error {
	c, span := tracer.Start(c, "Mirror Rehydrate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Mirror Rehydrate").
		Str(log.KeySnapshotKey, m.key).
		Logger()

	persisted := persistedSession{}
	found, err := m.snapshots.Load(c, m.key, &persisted)
	if err != nil {
		err = fmt.Errorf("failed loading session snapshot with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if !found {
		logger.Info().Msg("no session snapshot found, starting signed out")
		return nil
	}

	m.mu.Lock()
	m.user = persisted.User
	m.token = persisted.Token
	m.mu.Unlock()

	logger.Info().Msg("rehydrated session from snapshot")
	m.notify()
	return nil
}

// Apply transitions the mirror on a provider event. Unknown kinds and
// refreshes with no active session are ignored.
func (m *Mirror) Apply(c context.Context, event Event) {
	c, span := tracer.Start(c, "Mirror Apply")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Mirror Apply").
		Str(log.KeySessionEvent, string(event.Kind)).
		Logger()

	m.mu.Lock()
	switch event.Kind {
	case EventSignedIn:
		if event.User == nil || event.Token == nil {
			m.mu.Unlock()
			logger.Info().Msg("ignoring signed_in event missing user or token")
			return
		}
		m.user = event.User
		m.token = event.Token
		logger = logger.With().Str(log.KeyUserID, event.User.ID).Logger()
	case EventTokenRefreshed:
		if m.user == nil || event.Token == nil {
			m.mu.Unlock()
			logger.Info().Msg("ignoring token_refreshed event with no active session")
			return
		}
		m.token = event.Token
	case EventSignedOut:
		m.user = nil
		m.token = nil
	default:
		m.mu.Unlock()
		logger.Info().Msg("ignoring unknown session event")
		return
	}
	m.mu.Unlock()

	logger.Info().Msg("applied session event")
	c = logger.WithContext(c)
	m.persist(c)
	m.notify()
}

// SignOut asks the provider to revoke the session and clears the mirror no
// matter what the provider says. A session the provider already forgot is
// not an error; any other provider failure is logged and swallowed because
// the local state must end up signed out either way.
func (m *Mirror) SignOut(c context.Context) {
	c, span := tracer.Start(c, "Mirror SignOut")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Mirror SignOut").
		Logger()

	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token != nil {
		logger = logger.With().Str(log.KeyProcess, "revoking session at provider").Logger()
		logger.Info().Msg("revoking session at provider")
		if err := m.provider.SignOut(c, token.AccessToken); err != nil {
			if stderrors.Is(err, errors.ErrSessionNotFound) {
				logger.Info().Err(err).Msg("session already gone at provider")
			} else {
				err = fmt.Errorf("failed revoking session at provider with error=%w", err)
				errors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
			}
		} else {
			logger.Info().Msg("revoked session at provider")
		}
	}

	m.mu.Lock()
	m.user = nil
	m.token = nil
	m.mu.Unlock()

	logger.Info().Msg("cleared local session")
	c = logger.WithContext(c)
	m.persist(c)
	m.notify()
}

// User returns the current user, or nil when signed out.
func (m *Mirror) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// Token returns the current token handle, or nil when signed out.
func (m *Mirror) Token() *TokenHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil
	}
	token := *m.token
	return &token
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe func.
func (m *Mirror) Subscribe(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.observers, id)
	}
}

func (m *Mirror) persist(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Mirror persist").
		Str(log.KeySnapshotKey, m.key).
		Logger()

	m.mu.Lock()
	persisted := persistedSession{User: m.user, Token: m.token}
	m.mu.Unlock()

	if err := m.snapshots.Save(c, m.key, persisted); err != nil {
		err = fmt.Errorf("failed saving session snapshot with error=%w", err)
		logger.Error().Err(err).Msg("in-memory state remains authoritative")
		return
	}
	logger.Trace().Msg("saved session snapshot")
}

func (m *Mirror) notify() {
	m.mu.Lock()
	observers := make([]func(), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}
