// Package guard decides whether a signed-in (or anonymous) user may enter a
// route. It never mutates the session; it only reads the mirror and returns
// a decision for the caller to act on.
package guard

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/log"
	"github.com/smartaero/storefront/internal/session/mirror"
)

var tracer = otel.Tracer("session/guard")

// Decision tells the caller where to send the user.
type Decision string

const (
	Allow                  Decision = "allow"
	RedirectToSignIn       Decision = "redirect_to_sign_in"
	RedirectToProfile      Decision = "redirect_to_profile"
	RedirectToUnauthorized Decision = "redirect_to_unauthorized"
)

// Route describes what a destination requires.
type Route struct {
	RequiresAuth bool     `json:"requiresAuth"`
	AdminOnly    bool     `json:"adminOnly"`
	Roles        []string `json:"roles,omitempty"`
}

// Guard evaluates routes against a session mirror. Admin access is decided by
// email match, not role: only the configured admin address may enter admin
// routes.
type Guard struct {
	adminEmail string
}

func New(adminEmail string) Guard {
	return Guard{adminEmail: adminEmail}
}

// Check returns the decision for user entering route. A nil user is an
// anonymous visitor.
func (g Guard) Check(c context.Context, user *mirror.User, route Route) Decision {
	_, span := tracer.Start(c, "Guard Check")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Guard Check").
		Logger()

	decision := g.decide(user, route)

	logger = logger.With().Str(log.KeyGuardDecision, string(decision)).Logger()
	if user != nil {
		logger = logger.With().Str(log.KeyUserID, user.ID).Logger()
	}
	logger.Info().Msg("decided route access")
	return decision
}

func (g Guard) decide(user *mirror.User, route Route) Decision {
	if (route.RequiresAuth || route.AdminOnly || len(route.Roles) > 0) && user == nil {
		return RedirectToSignIn
	}
	if route.AdminOnly && !strings.EqualFold(user.Email, g.adminEmail) {
		return RedirectToProfile
	}
	if len(route.Roles) > 0 {
		matched := false
		for _, role := range route.Roles {
			if strings.EqualFold(role, user.Role) {
				matched = true
				break
			}
		}
		if !matched {
			return RedirectToUnauthorized
		}
	}
	return Allow
}
