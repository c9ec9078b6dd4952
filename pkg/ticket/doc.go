// Package ticket implements the encrypted authentication ticket that carries
// a user's identity between requests, plus the machinery to reissue it with
// custom user data.
//
// A Ticket is an immutable value: once encoded into its transportable cookie
// form it is never modified in place. Scoping information (such as the
// application name a user logged in under) travels inside the ticket's
// UserData payload as ";"-separated "key=value" entries. This package owns
// the "AN" entry; EncodeUserData and ApplicationNameFromUserData are the only
// reader and writer of that format.
//
// The Issuer produces fresh baseline tickets and, more importantly, reissues
// them: Reissue obtains a baseline credential for a subject, decodes it, and
// re-encodes an identical ticket whose UserData has been replaced. Every other
// field (version, subject, issue and expiry times, persistence) is preserved
// bit for bit, so a reissued credential is indistinguishable from the original
// except for its payload.
//
// Encryption is delegated to the cookie package's AES-GCM primitives; this
// package never touches key material.
package ticket
