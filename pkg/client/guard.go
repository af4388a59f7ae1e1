package client

import (
	"github.com/michaelkennf/hopital-api/internal/platform/auth"
)

// Guard outcomes.
type Outcome int

const (
	// OutcomeVerifying means the session is still being checked; show a
	// loading state and make no navigation decision yet.
	OutcomeVerifying Outcome = iota
	// OutcomeRedirectLogin sends the visitor to the login page, recording
	// where they came from.
	OutcomeRedirectLogin
	// OutcomeRedirectDashboard sends an authenticated user whose role is
	// not allowed here to their own dashboard.
	OutcomeRedirectDashboard
	// OutcomeRender lets the guarded content through.
	OutcomeRender
)

// Decision is the guard's verdict for one navigation. Redirect decisions
// replace the current history entry so "back" does not loop into the
// guarded page.
type Decision struct {
	Outcome Outcome
	// Path is the redirect target, set for both redirect outcomes.
	Path string
	// From is the originally requested location, set on login redirects so
	// login can return the visitor afterward.
	From    string
	Replace bool
}

// Evaluate is a pure function of the session state and the guarded route:
// same inputs, same decision, no side effects. An empty allowedRoles slice
// means any authenticated user may pass.
func Evaluate(isLoading bool, user *User, allowedRoles []auth.Role, location string) Decision {
	if isLoading {
		return Decision{Outcome: OutcomeVerifying}
	}
	if user == nil {
		return Decision{
			Outcome: OutcomeRedirectLogin,
			Path:    "/login",
			From:    location,
			Replace: true,
		}
	}
	if len(allowedRoles) > 0 && !roleAllowed(user.Role, allowedRoles) {
		return Decision{
			Outcome: OutcomeRedirectDashboard,
			Path:    auth.DashboardPath(user.Role),
			Replace: true,
		}
	}
	return Decision{Outcome: OutcomeRender}
}

func roleAllowed(role auth.Role, allowed []auth.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
