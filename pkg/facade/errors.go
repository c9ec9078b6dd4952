package facade

import "errors"

var (
	// ErrNoDirectory is returned when the facade is constructed without a
	// directory.
	ErrNoDirectory = errors.New("facade.no_directory")

	// ErrNoIssuer is returned when the facade is constructed without a
	// ticket issuer.
	ErrNoIssuer = errors.New("facade.no_issuer")

	// ErrNotApplicationScoped is returned when the wired directory does not
	// read the current application from the request context. Failing at
	// wiring time beats silently serving one application to every tenant.
	ErrNotApplicationScoped = errors.New("facade.directory_not_application_scoped")

	// ErrNoResponseWriter is returned when a flow that writes a credential
	// is invoked without a response writer to attach it to.
	ErrNoResponseWriter = errors.New("facade.response_writer_required")
)
