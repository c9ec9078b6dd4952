package facade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenantauth/pkg/appname"
	"github.com/dmitrymomot/tenantauth/pkg/directory"
	"github.com/dmitrymomot/tenantauth/pkg/ticket"
)

// Facade exposes the tenant-aware authentication flows over an
// application-scoped directory.
type Facade struct {
	dir    directory.ApplicationScoped
	issuer *ticket.Issuer
	logger *slog.Logger
}

// Option configures a Facade.
type Option func(*Facade)

// WithLogger sets a custom logger for the facade.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Facade. The directory must be ApplicationScoped; a plain
// Directory is rejected with ErrNotApplicationScoped so misconfiguration
// surfaces at wiring time.
func New(dir directory.Directory, issuer *ticket.Issuer, opts ...Option) (*Facade, error) {
	if dir == nil {
		return nil, ErrNoDirectory
	}
	if issuer == nil {
		return nil, ErrNoIssuer
	}

	scoped, ok := dir.(directory.ApplicationScoped)
	if !ok {
		return nil, ErrNotApplicationScoped
	}

	f := &Facade{
		dir:    scoped,
		issuer: issuer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Issuer returns the ticket issuer the facade writes credentials with, for
// wiring the appname middleware against the same cookie.
func (f *Facade) Issuer() *ticket.Issuer {
	return f.issuer
}

// LoginResult reports the outcome of a successful login.
type LoginResult struct {
	// Username is the composite name exactly as the user typed it, for
	// redisplay. The split base username is never exposed.
	Username string

	// User is the directory record found under the published application.
	// Nil when the lookup missed after a successful credential check; in
	// that case the credential below is the unscoped baseline.
	User *directory.User

	// Credential is the cookie written to the response.
	Credential *http.Cookie
}

// Login authenticates a composite username against the directory and, on
// success, writes a credential carrying the application name to w.
//
// The application part of the composite name is published into the context
// before the directory is consulted, so the credential check itself runs
// under the right scope. Failed attempts return
// directory.ErrInvalidCredentials and write nothing.
func (f *Facade) Login(ctx context.Context, w http.ResponseWriter, compositeUsername, password string, rememberMe bool) (*LoginResult, error) {
	if w == nil {
		return nil, ErrNoResponseWriter
	}

	app, username := directory.SplitUsername(compositeUsername)
	ctx = appname.WithApplicationName(ctx, app)

	ok, err := f.dir.ValidateCredentials(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("validate credentials: %w", err)
	}
	if !ok {
		return nil, directory.ErrInvalidCredentials
	}

	result := &LoginResult{Username: compositeUsername}

	user, err := f.dir.GetUser(ctx, username)
	switch {
	case errors.Is(err, directory.ErrUserNotFound):
		// The credential check passed but the scoped lookup missed. The
		// original behavior stands: issue the baseline unscoped credential
		// instead of failing the login.
		f.logger.WarnContext(ctx, "validated user not found under application, issuing unscoped credential",
			slog.String("application", app),
			slog.String("username", username),
		)
		result.Credential, err = f.issuer.Issue(username, rememberMe)
		if err != nil {
			return nil, fmt.Errorf("issue credential: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	default:
		result.User = user
		result.Credential, err = f.issuer.Reissue(username, ticket.EncodeUserData(app), rememberMe)
		if err != nil {
			return nil, fmt.Errorf("reissue credential: %w", err)
		}
	}

	http.SetCookie(w, result.Credential)
	return result, nil
}

// ChangePassword changes the user's password and reissues the credential with
// the application the request is already scoped to. The application is
// captured from the directory's accessor before delegating: the
// change-password form carries no composite username, so the scope comes from
// the existing credential, not from user input. The reissued credential is
// persistent.
func (f *Facade) ChangePassword(ctx context.Context, w http.ResponseWriter, username, oldPassword, newPassword string) (*http.Cookie, error) {
	if w == nil {
		return nil, ErrNoResponseWriter
	}

	app := f.dir.ApplicationName(ctx)

	if err := f.dir.ChangePassword(ctx, username, oldPassword, newPassword); err != nil {
		return nil, err
	}

	cred, err := f.issuer.Reissue(username, ticket.EncodeUserData(app), true)
	if err != nil {
		return nil, fmt.Errorf("reissue credential: %w", err)
	}

	http.SetCookie(w, cred)
	return cred, nil
}

// VerifyUser checks that a composite username names an existing user, for the
// password-recovery flow. The application is published before the lookup,
// exactly as in Login, but no credential is issued: recovery does not
// authenticate.
func (f *Facade) VerifyUser(ctx context.Context, compositeUsername string) (*directory.User, error) {
	app, username := directory.SplitUsername(compositeUsername)
	ctx = appname.WithApplicationName(ctx, app)

	user, err := f.dir.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return user, nil
}
