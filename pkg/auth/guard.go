package auth

import "github.com/convene-app/convene/pkg/domain"

// Routes the guard redirects to.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Decision is the outcome of a route guard check.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow is the decision that lets the navigation through.
var Allow = Decision{Allowed: true}

// RedirectTo builds a redirect decision for path.
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Decide gates access to a protected view. It is a pure function of its
// inputs: no network, no mutation, safe to call on every navigation.
//
// A session that is not Authenticated is sent to the login view regardless
// of the required roles. An authenticated session lacking a required role is
// sent to the unauthorized view. With no required roles, any authenticated
// session passes.
func Decide(s domain.Session, requiredRoles ...domain.Role) Decision {
	if s.Status != domain.StatusAuthenticated || s.User == nil {
		return RedirectTo(LoginPath)
	}
	if len(requiredRoles) == 0 {
		return Allow
	}
	for _, r := range requiredRoles {
		if s.User.Role == r {
			return Allow
		}
	}
	return RedirectTo(UnauthorizedPath)
}
