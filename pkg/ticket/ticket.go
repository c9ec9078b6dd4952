package ticket

import "time"

// Ticket is the decoded form of an authentication credential. It mirrors the
// classic forms-authentication ticket layout: identity, validity window,
// persistence flag and an opaque UserData payload owned by the application.
type Ticket struct {
	Version    int       `json:"v"`
	Name       string    `json:"n"`
	IssuedAt   time.Time `json:"iat"`
	ExpiresAt  time.Time `json:"exp"`
	Persistent bool      `json:"per"`
	UserData   string    `json:"d,omitempty"`
}

// Expired reports whether the ticket's validity window has passed.
func (t Ticket) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// ApplicationName extracts the application name from the ticket's UserData.
// Returns the empty string when no name is encoded.
func (t Ticket) ApplicationName() string {
	return ApplicationNameFromUserData(t.UserData)
}
