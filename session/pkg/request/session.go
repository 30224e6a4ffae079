package request

import "github.com/smartaero/storefront/internal/session/mirror"

type SessionEvent struct {
	Kind  string              `json:"kind" validate:"required,oneof=signed_in token_refreshed signed_out"`
	User  *mirror.User        `json:"user,omitempty"`
	Token *mirror.TokenHandle `json:"token,omitempty"`
}

func (e SessionEvent) Event() mirror.Event {
	return mirror.Event{
		Kind:  mirror.EventKind(e.Kind),
		User:  e.User,
		Token: e.Token,
	}
}

type GuardCheck struct {
	RequiresAuth bool     `json:"requiresAuth"`
	AdminOnly    bool     `json:"adminOnly"`
	Roles        []string `json:"roles,omitempty"`
}
