package response

import "github.com/smartaero/storefront/internal/session/mirror"

type Session struct {
	DeviceID string       `json:"deviceId"`
	SignedIn bool         `json:"signedIn"`
	User     *mirror.User `json:"user,omitempty"`
}

func FromMirror(deviceID string, m *mirror.Mirror) Session {
	user := m.User()
	return Session{DeviceID: deviceID, SignedIn: user != nil, User: user}
}
