package directory

import "strings"

// usernameSeparator delimits the application prefix in a composite username.
const usernameSeparator = `\`

// SplitUsername splits a composite "application\username" into its parts.
// The split happens on the first separator only, so the username may itself
// contain backslashes. Without a separator the whole input is the username
// and the application is empty.
func SplitUsername(composite string) (application, username string) {
	parts := strings.SplitN(composite, usernameSeparator, 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", composite
}

// JoinUsername is the inverse of SplitUsername: it prefixes the username with
// the application when one is set, and returns the bare username otherwise.
func JoinUsername(application, username string) string {
	if application == "" {
		return username
	}
	return application + usernameSeparator + username
}
