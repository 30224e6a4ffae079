package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaero/storefront/internal/config"
	"github.com/smartaero/storefront/internal/errors"
)

func TestHttpProviderSignOut(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       map[string]string
		assertErr  func(t *testing.T, err error)
	}{
		{
			name:       "Revoked",
			statusCode: http.StatusOK,
			body:       map[string]string{},
			assertErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:       "SessionNotFound",
			statusCode: http.StatusNotFound,
			body:       map[string]string{"code": "session_not_found", "message": "unknown session"},
			assertErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrSessionNotFound)
			},
		},
		{
			name:       "ProviderFailure",
			statusCode: http.StatusInternalServerError,
			body:       map[string]string{"code": "internal", "message": "revocation backend down"},
			assertErr: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.NotErrorIs(t, err, errors.ErrSessionNotFound)
				assert.Contains(t, err.Error(), "revocation backend down")
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, http.MethodPost, r.Method)
					assert.Equal(t, "/sessions/signout", r.URL.Path)
					assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

					reqBody := signOutRequest{}
					require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
					assert.Equal(t, "access-1", reqBody.AccessToken)

					w.WriteHeader(tc.statusCode)
					require.NoError(t, json.NewEncoder(w).Encode(tc.body))
				}),
			)
			defer server.Close()

			provider := NewHttpProvider(config.Identity{
				Endpoint: server.URL,
				ApiKey:   "test-api-key",
			})
			tc.assertErr(t, provider.SignOut(context.Background(), "access-1"))
		})
	}
}
