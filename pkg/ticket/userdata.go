package ticket

import "strings"

// appNamePrefix marks the UserData entry owned by this package.
const appNamePrefix = "AN="

// EncodeUserData formats an application name as a UserData payload: "AN=<name>;".
// It writes a single entry and does not merge with pre-existing payloads.
func EncodeUserData(applicationName string) string {
	return appNamePrefix + applicationName + ";"
}

// ApplicationNameFromUserData scans the ";"-separated entries of a UserData
// payload and returns the value of the first "AN=" entry, with surrounding
// whitespace trimmed. Absence of the entry, or an empty payload, yields the
// empty string; the function never fails.
func ApplicationNameFromUserData(userData string) string {
	for _, entry := range strings.Split(userData, ";") {
		entry = strings.TrimSpace(entry)
		if strings.HasPrefix(entry, appNamePrefix) {
			return entry[len(appNamePrefix):]
		}
	}
	return ""
}
