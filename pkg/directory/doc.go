// Package directory defines the user directory capability consumed by the
// authentication flows, scoped by the application name carried in the request
// context.
//
// A single shared directory serves every logical application: each user row
// belongs to exactly one application, and all lookups are implicitly filtered
// by the name published into the context by the appname middleware. Stores
// never receive the application explicitly; they read it through the
// ApplicationScoped accessor at call time.
//
// Three implementations ship with the package: an in-memory store for tests
// and small deployments, a PostgreSQL store on pgx, and a Redis read-through
// cache that wraps either.
package directory
