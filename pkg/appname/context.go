// Package appname publishes the current application (tenant) name into the
// request context and resolves it from the authentication credential on every
// inbound request.
//
// The context slot plays the role of the classic per-request "ApplicationName"
// item: it is populated by the Middleware before any application logic runs,
// so directory operations later in the request can read a consistent value.
// Session state is deliberately not involved; the slot must exist before any
// session would be available.
package appname

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithApplicationName returns a context carrying the application name.
// An empty name is a valid value meaning the default, unscoped application.
func WithApplicationName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextKey{}, name)
}

// FromContext retrieves the application name from the context.
// Returns "", false when the slot was never populated.
func FromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(contextKey{}).(string)
	return name, ok
}

// Current returns the application name for the request, or the empty string
// when the slot is unset. This is the accessor every tenant-scoped directory
// operation reads; it never fails, so unauthenticated traffic simply sees the
// default application.
func Current(ctx context.Context) string {
	name, _ := FromContext(ctx)
	return name
}

// LoggerExtractor returns a context extractor for slog-based loggers that
// annotates records with the current application name.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if name, ok := FromContext(ctx); ok && name != "" {
			return slog.String("application", name), true
		}
		return slog.Attr{}, false
	}
}
