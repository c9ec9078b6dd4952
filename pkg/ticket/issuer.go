package ticket

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/tenantauth/pkg/cookie"
)

const (
	defaultCookieName    = "auth_ticket"
	defaultVersion       = 2
	defaultTTL           = 30 * time.Minute
	defaultPersistentTTL = 30 * 24 * time.Hour
)

// Issuer produces transportable authentication credentials. It owns the
// validity windows and the cookie attributes of issued tickets; callers only
// decide the subject, the persistence flag and, on reissue, the UserData.
type Issuer struct {
	codec         *Codec
	cookies       *cookie.Manager
	cookieName    string
	version       int
	ttl           time.Duration
	persistentTTL time.Duration
	now           func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithCookieName overrides the name of the credential cookie.
func WithCookieName(name string) IssuerOption {
	return func(i *Issuer) {
		if name != "" {
			i.cookieName = name
		}
	}
}

// WithVersion sets the ticket format version stamped on new tickets.
func WithVersion(v int) IssuerOption {
	return func(i *Issuer) {
		if v > 0 {
			i.version = v
		}
	}
}

// WithTTL sets the validity window for session (non-persistent) tickets.
func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithPersistentTTL sets the validity window for persistent tickets.
func WithPersistentTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.persistentTTL = ttl
		}
	}
}

// NewIssuer creates an Issuer. Returns ErrUnavailable when the codec or
// cookie manager is missing, mirroring the platform-context check the
// issuance primitive performs.
func NewIssuer(codec *Codec, cookies *cookie.Manager, opts ...IssuerOption) (*Issuer, error) {
	if codec == nil || cookies == nil {
		return nil, ErrUnavailable
	}

	i := &Issuer{
		codec:         codec,
		cookies:       cookies,
		cookieName:    defaultCookieName,
		version:       defaultVersion,
		ttl:           defaultTTL,
		persistentTTL: defaultPersistentTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// CookieName returns the name of the credential cookie this issuer writes.
func (i *Issuer) CookieName() string {
	return i.cookieName
}

// Issue creates a fresh baseline credential for the subject with empty
// UserData and returns it in cookie form.
func (i *Issuer) Issue(name string, persistent bool) (*http.Cookie, error) {
	if name == "" {
		return nil, ErrInvalidArgument
	}

	issued := i.now()
	t := Ticket{
		Version:    i.version,
		Name:       name,
		IssuedAt:   issued,
		ExpiresAt:  issued.Add(i.lifetime(persistent)),
		Persistent: persistent,
	}

	return i.seal(t)
}

// Reissue produces a credential for the subject whose UserData is replaced by
// userData. A fresh baseline credential is obtained first and decoded, and
// the new ticket preserves its version, subject, issue and expiry times, so
// the only difference between the two is the payload.
func (i *Issuer) Reissue(name, userData string, persistent bool) (*http.Cookie, error) {
	if name == "" || userData == "" {
		return nil, ErrInvalidArgument
	}

	base, err := i.Issue(name, persistent)
	if err != nil {
		return nil, err
	}

	t, err := i.codec.Decode(base.Value)
	if err != nil {
		return nil, err
	}

	t = Ticket{
		Version:    t.Version,
		Name:       t.Name,
		IssuedAt:   t.IssuedAt,
		ExpiresAt:  t.ExpiresAt,
		Persistent: persistent,
		UserData:   userData,
	}

	return i.seal(t)
}

// Decode reads the credential cookie from the request and decodes it.
// Returns ErrExpiredTicket for tickets past their validity window.
func (i *Issuer) Decode(r *http.Request) (Ticket, error) {
	value, err := i.cookies.Get(r, i.cookieName)
	if err != nil {
		return Ticket{}, err
	}

	t, err := i.codec.Decode(value)
	if err != nil {
		return Ticket{}, err
	}
	if t.Expired() {
		return Ticket{}, ErrExpiredTicket
	}
	return t, nil
}

func (i *Issuer) seal(t Ticket) (*http.Cookie, error) {
	value, err := i.codec.Encode(t)
	if err != nil {
		return nil, err
	}

	// Persistent credentials survive the browser session; session credentials
	// carry no MaxAge so the client drops them on exit.
	opts := []cookie.Option{}
	if t.Persistent {
		opts = append(opts, cookie.WithMaxAge(int(time.Until(t.ExpiresAt).Seconds())))
	}

	return i.cookies.Build(i.cookieName, value, opts...), nil
}

func (i *Issuer) lifetime(persistent bool) time.Duration {
	if persistent {
		return i.persistentTTL
	}
	return i.ttl
}
