// Package identity resolves the actor name recorded in created_by,
// modified_by, and the audit trail.
package identity

import "os/user"

// Fallback is recorded when the current OS user cannot be determined.
const Fallback = "system"

// lookup can be overridden in tests.
var lookup = user.Current

// CurrentUser returns the login name of the current OS user, or Fallback
// when the lookup fails or yields an empty name.
func CurrentUser() string {
	u, err := lookup()
	if err != nil || u.Username == "" {
		return Fallback
	}
	return u.Username
}
