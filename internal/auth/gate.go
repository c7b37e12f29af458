// Package auth decides which visitors may reach the admin area.
package auth

import "strings"

const (
	// SignInPath is the admin sign-in page.
	SignInPath = "/portal-access"
	// DashboardPath is where signed-in admins land.
	DashboardPath = "/dashboard"
	// StudioPath is the root of the content management pages.
	StudioPath = "/studio-admin"
)

// ProtectedPrefixes lists the path prefixes that require a signed-in admin.
var ProtectedPrefixes = []string{StudioPath, DashboardPath}

// Decision is the outcome of the gate for a single request.
type Decision int

const (
	Allow Decision = iota
	DenyToSignIn
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyToSignIn:
		return "deny"
	case RedirectToDashboard:
		return "redirect"
	}
	return "unknown"
}

// Decide is the whole authorization policy of the site.
func Decide(isLoggedIn bool, path string) Decision {
	if IsProtected(path) {
		if isLoggedIn {
			return Allow
		}
		return DenyToSignIn
	}
	// Exact match only: sub-paths of the sign-in page never bounce.
	if path == SignInPath && isLoggedIn {
		return RedirectToDashboard
	}
	return Allow
}

// IsProtected reports whether path is a protected prefix or lies beneath one.
func IsProtected(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
