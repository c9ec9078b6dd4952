package ticket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/tenantauth/pkg/cookie"
)

// Codec converts tickets to and from their encrypted transportable form.
// The cookie manager supplies the cipher so ticket encryption shares key
// rotation with the rest of the cookie surface.
type Codec struct {
	cookies *cookie.Manager
}

// NewCodec creates a Codec backed by the given cookie manager.
func NewCodec(cookies *cookie.Manager) (*Codec, error) {
	if cookies == nil {
		return nil, ErrUnavailable
	}
	return &Codec{cookies: cookies}, nil
}

// Encode serializes and encrypts a ticket into its cookie value form.
func (c *Codec) Encode(t Ticket) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode ticket: %w", err)
	}

	value, err := c.cookies.Encrypt(string(data))
	if err != nil {
		return "", fmt.Errorf("encrypt ticket: %w", err)
	}
	return value, nil
}

// Decode decrypts and parses a cookie value back into a ticket.
// Expiry is not checked here; callers decide how stale tickets are handled.
func (c *Codec) Decode(value string) (Ticket, error) {
	plaintext, err := c.cookies.Decrypt(value)
	if err != nil {
		return Ticket{}, errors.Join(ErrInvalidTicket, err)
	}

	var t Ticket
	if err := json.Unmarshal([]byte(plaintext), &t); err != nil {
		return Ticket{}, errors.Join(ErrInvalidTicket, err)
	}
	return t, nil
}
