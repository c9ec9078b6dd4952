package ticket

import (
	"time"

	"github.com/dmitrymomot/tenantauth/pkg/cookie"
)

// Config holds issuer configuration loaded from the environment.
type Config struct {
	CookieName    string        `env:"AUTH_COOKIE_NAME" envDefault:"auth_ticket"`
	Version       int           `env:"AUTH_TICKET_VERSION" envDefault:"2"`
	TTL           time.Duration `env:"AUTH_TICKET_TTL" envDefault:"30m"`
	PersistentTTL time.Duration `env:"AUTH_TICKET_PERSISTENT_TTL" envDefault:"720h"`
}

// NewIssuerFromConfig creates an Issuer from the provided Config.
// Only non-zero values from the config are applied.
func NewIssuerFromConfig(cfg Config, codec *Codec, cookies *cookie.Manager, opts ...IssuerOption) (*Issuer, error) {
	configOpts := make([]IssuerOption, 0, 4)

	if cfg.CookieName != "" {
		configOpts = append(configOpts, WithCookieName(cfg.CookieName))
	}
	if cfg.Version > 0 {
		configOpts = append(configOpts, WithVersion(cfg.Version))
	}
	if cfg.TTL > 0 {
		configOpts = append(configOpts, WithTTL(cfg.TTL))
	}
	if cfg.PersistentTTL > 0 {
		configOpts = append(configOpts, WithPersistentTTL(cfg.PersistentTTL))
	}

	configOpts = append(configOpts, opts...)

	return NewIssuer(codec, cookies, configOpts...)
}
