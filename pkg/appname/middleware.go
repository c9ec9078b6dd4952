package appname

import (
	"net/http"

	"github.com/dmitrymomot/tenantauth/pkg/ticket"
)

// Middleware resolves the application name from the request's authentication
// credential and publishes it into the context before the next handler runs.
//
// The name is published on every request, even when it is empty, so handlers
// never observe a value left over from another source: unauthenticated
// requests, missing cookies, undecodable or expired tickets all resolve to
// the default (empty) application.
func Middleware(issuer *ticket.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := ""
			if t, err := issuer.Decode(r); err == nil {
				name = t.ApplicationName()
			}

			ctx := WithApplicationName(r.Context(), name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
