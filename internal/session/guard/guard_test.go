package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartaero/storefront/internal/session/mirror"
)

func TestGuardCheck(t *testing.T) {
	g := New("admin@smartaero.io")
	customer := &mirror.User{ID: "user-1", Email: "grower@example.com", Role: "customer"}
	admin := &mirror.User{ID: "user-2", Email: "Admin@SmartAero.io", Role: "customer"}

	testCases := []struct {
		name     string
		user     *mirror.User
		route    Route
		expected Decision
	}{
		{
			name:     "PublicRouteAnonymous",
			user:     nil,
			route:    Route{},
			expected: Allow,
		},
		{
			name:     "ProtectedRouteAnonymous",
			user:     nil,
			route:    Route{RequiresAuth: true},
			expected: RedirectToSignIn,
		},
		{
			name:     "AdminRouteAnonymous",
			user:     nil,
			route:    Route{AdminOnly: true},
			expected: RedirectToSignIn,
		},
		{
			name:     "ProtectedRouteSignedIn",
			user:     customer,
			route:    Route{RequiresAuth: true},
			expected: Allow,
		},
		{
			name:     "AdminRouteNonAdmin",
			user:     customer,
			route:    Route{AdminOnly: true},
			expected: RedirectToProfile,
		},
		{
			name:     "AdminRouteAdminEmailCaseInsensitive",
			user:     admin,
			route:    Route{AdminOnly: true},
			expected: Allow,
		},
		{
			name:     "RoleRouteUnmatched",
			user:     customer,
			route:    Route{Roles: []string{"support", "warehouse"}},
			expected: RedirectToUnauthorized,
		},
		{
			name:     "RoleRouteMatched",
			user:     customer,
			route:    Route{Roles: []string{"Customer"}},
			expected: Allow,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, g.Check(context.Background(), tc.user, tc.route))
		})
	}
}
