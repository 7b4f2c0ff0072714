package utils

import "strings"

// DisplayName resolves a user-facing name with a fixed precedence:
// profile name, then the local part of the email address, then fallback.
func DisplayName(name, email, fallback string) string {
	if name != "" {
		return name
	}
	if email != "" {
		if local := strings.SplitN(email, "@", 2)[0]; local != "" {
			return local
		}
	}
	return fallback
}
