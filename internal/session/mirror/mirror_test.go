package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/snapshot"
)

type stubProvider struct {
	signOutErr error
	calls      int
	lastToken  string
}

func (p *stubProvider) SignOut(_ context.Context, accessToken string) error {
	p.calls++
	p.lastToken = accessToken
	return p.signOutErr
}

var testUser = User{ID: "user-1", Email: "grower@example.com", Role: "customer"}

var testToken = TokenHandle{
	AccessToken:  "access-1",
	RefreshToken: "refresh-1",
	ExpiresAt:    1924905600,
}

func signedInEvent() Event {
	user := testUser
	token := testToken
	return Event{Kind: EventSignedIn, User: &user, Token: &token}
}

func TestSignedInEventSetsUserAndToken(t *testing.T) {
	m := New("auth-storage:device-1", &stubProvider{}, snapshot.NewMemoryStore())

	m.Apply(context.Background(), signedInEvent())

	require.NotNil(t, m.User())
	assert.Equal(t, "user-1", m.User().ID)
	require.NotNil(t, m.Token())
	assert.Equal(t, "access-1", m.Token().AccessToken)
}

func TestTokenRefreshedUpdatesTokenOnly(t *testing.T) {
	m := New("auth-storage:device-1", &stubProvider{}, snapshot.NewMemoryStore())
	m.Apply(context.Background(), signedInEvent())

	refreshed := TokenHandle{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresAt: 1924992000}
	m.Apply(context.Background(), Event{Kind: EventTokenRefreshed, Token: &refreshed})

	require.NotNil(t, m.Token())
	assert.Equal(t, "access-2", m.Token().AccessToken)
	require.NotNil(t, m.User())
	assert.Equal(t, "user-1", m.User().ID)
}

func TestTokenRefreshedWhileSignedOutIsIgnored(t *testing.T) {
	m := New("auth-storage:device-1", &stubProvider{}, snapshot.NewMemoryStore())

	refreshed := testToken
	m.Apply(context.Background(), Event{Kind: EventTokenRefreshed, Token: &refreshed})

	assert.Nil(t, m.User())
	assert.Nil(t, m.Token())
}

func TestSignedOutEventClearsState(t *testing.T) {
	m := New("auth-storage:device-1", &stubProvider{}, snapshot.NewMemoryStore())
	m.Apply(context.Background(), signedInEvent())

	m.Apply(context.Background(), Event{Kind: EventSignedOut})

	assert.Nil(t, m.User())
	assert.Nil(t, m.Token())
}

func TestSignOutRevokesAtProviderAndClears(t *testing.T) {
	provider := &stubProvider{}
	m := New("auth-storage:device-1", provider, snapshot.NewMemoryStore())
	m.Apply(context.Background(), signedInEvent())

	m.SignOut(context.Background())

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "access-1", provider.lastToken)
	assert.Nil(t, m.User())
	assert.Nil(t, m.Token())
}

func TestSignOutClearsEvenWhenProviderFails(t *testing.T) {
	testCases := []struct {
		name        string
		providerErr error
	}{
		{name: "SessionAlreadyGone", providerErr: errors.ErrSessionNotFound},
		{name: "ProviderUnreachable", providerErr: assert.AnError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{signOutErr: tc.providerErr}
			m := New("auth-storage:device-1", provider, snapshot.NewMemoryStore())
			m.Apply(context.Background(), signedInEvent())

			m.SignOut(context.Background())

			assert.Equal(t, 1, provider.calls)
			assert.Nil(t, m.User())
			assert.Nil(t, m.Token())
		})
	}
}

func TestSignOutWhileSignedOutSkipsProvider(t *testing.T) {
	provider := &stubProvider{}
	m := New("auth-storage:device-1", provider, snapshot.NewMemoryStore())

	m.SignOut(context.Background())

	assert.Zero(t, provider.calls)
	assert.Nil(t, m.User())
}

func TestStateChangesNotifyObservers(t *testing.T) {
	m := New("auth-storage:device-1", &stubProvider{}, snapshot.NewMemoryStore())
	notified := 0
	unsubscribe := m.Subscribe(func() { notified++ })

	m.Apply(context.Background(), signedInEvent())
	m.SignOut(context.Background())
	assert.Equal(t, 2, notified)

	unsubscribe()
	m.Apply(context.Background(), signedInEvent())
	assert.Equal(t, 2, notified)
}

func TestPersistAndRehydrate(t *testing.T) {
	snapshots := snapshot.NewMemoryStore()
	m := New("auth-storage:device-1", &stubProvider{}, snapshots)
	m.Apply(context.Background(), signedInEvent())

	fresh := New("auth-storage:device-1", &stubProvider{}, snapshots)
	require.NoError(t, fresh.Rehydrate(context.Background()))

	require.NotNil(t, fresh.User())
	assert.Equal(t, "grower@example.com", fresh.User().Email)
	require.NotNil(t, fresh.Token())
	assert.Equal(t, "refresh-1", fresh.Token().RefreshToken)
}

func TestRegistryReturnsSameMirrorPerDevice(t *testing.T) {
	r := NewRegistry(&stubProvider{}, snapshot.NewMemoryStore())

	first, err := r.Mirror(context.Background(), "device-1")
	require.NoError(t, err)
	second, err := r.Mirror(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := r.Mirror(context.Background(), "device-2")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestRegistryReconcilesExternalSnapshotChange(t *testing.T) {
	snapshots := snapshot.NewMemoryStore()
	r := NewRegistry(&stubProvider{}, snapshots)

	m, err := r.Mirror(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Nil(t, m.User())

	c, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Watch(c) }()

	user := testUser
	token := testToken
	require.NoError(t, snapshots.Save(
		context.Background(),
		"auth-storage:device-1",
		persistedSession{User: &user, Token: &token},
	))
	snapshots.NotifyExternalChange("auth-storage:device-1")

	assert.Eventually(t, func() bool {
		return m.User() != nil && m.User().ID == "user-1"
	}, time.Second, 10*time.Millisecond)
}
