package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a directory record. Application names the logical application the
// user belongs to; the empty string is the default, unscoped application.
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	Application string    `json:"application"`
	CreatedAt   time.Time `json:"created_at"`
}

// Directory is the membership capability consumed by the authentication
// flows. Every operation is implicitly scoped by the application name in ctx.
type Directory interface {
	// ValidateCredentials reports whether username/password identify a user
	// under the current application. Unknown users and wrong passwords both
	// yield false without error; errors are reserved for the store itself.
	ValidateCredentials(ctx context.Context, username, password string) (bool, error)

	// GetUser returns the user under the current application.
	// Returns ErrUserNotFound when no such user exists.
	GetUser(ctx context.Context, username string) (*User, error)

	// ChangePassword verifies oldPassword and replaces it with newPassword.
	// Returns ErrInvalidCredentials when the old password does not match.
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error

	// Register creates a user under the current application.
	// Returns ErrUserExists when the username is already taken there.
	Register(ctx context.Context, username, email, password string) (*User, error)
}

// ApplicationScoped marks directories whose operations read the current
// application name from the request context rather than static configuration.
// The authentication facade refuses to work with a plain Directory: wiring
// one in would silently pin every lookup to a single application.
type ApplicationScoped interface {
	Directory

	// ApplicationName returns the application the directory is operating
	// under for this request. Empty when the request is unscoped.
	ApplicationName(ctx context.Context) string
}
