// Package facade wires the user directory, the application-name context slot
// and the ticket issuer into tenant-aware authentication flows.
//
// Users sign in with a composite username of the form "application\username".
// Each flow splits that input on the first backslash, publishes the
// application part into the request context before the directory is
// consulted, and reports the composite form back so the UI redisplays exactly
// what the user typed, never the split base username.
//
// A login attempt moves through a fixed lifecycle: the credentials are
// verified under the published application, and the attempt either fails
// (no credential is written) or succeeds, in which case the credential is
// reissued with the application name embedded in its user data. The
// password-change flow reads the application from the existing request scope
// instead, because its form carries no composite username. The recovery flow
// only verifies that the user exists; it never issues a credential.
//
// The facade refuses to operate on a directory that is not
// ApplicationScoped. A plain directory would ignore the published name and
// silently serve a single application, so the mismatch is rejected at wiring
// time rather than discovered in production.
package facade
