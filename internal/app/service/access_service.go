package service

import (
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
)

// Frontend route targets the decision engine redirects to
const (
	PathSignIn           = "/signin"
	PathProfileSetup     = "/profile-setup"
	PathDashboard        = "/dashboard"
	PathGymDashboard     = "/gym-dashboard"
	PathTrainerDashboard = "/trainer-dashboard"
)

// DecisionKind is the outcome category of an access decision
type DecisionKind string

const (
	// DecisionIndeterminate means the session check is still in flight; the
	// caller must show a loading state and render neither protected nor
	// public content.
	DecisionIndeterminate DecisionKind = "indeterminate"
	DecisionAllow         DecisionKind = "allow"
	DecisionRedirect      DecisionKind = "redirect"
)

// Decision is the outcome of evaluating a navigation request
type Decision struct {
	Kind   DecisionKind `json:"kind"`
	Target string       `json:"target,omitempty"` // set when Kind == redirect
}

// RouteRequirements describes a destination's access constraints. The zero
// value is a public route with no gates.
type RouteRequirements struct {
	RequiresAuth            bool              `json:"requires_auth"`
	RequiresCompleteProfile bool              `json:"requires_complete_profile"`
	RequiredRole            model.UserRole    `json:"required_role,omitempty"`
	RequiredAccountType     model.AccountType `json:"required_account_type,omitempty"`
}

// AccessService computes routing decisions for navigation requests. It is
// stateless and pure: the same inputs always yield the same decision, and no
// input ever produces an error — unknown or malformed user state degrades to
// a redirect, never a throw.
type AccessService interface {
	Decide(sessionResolved bool, user *model.User, route RouteRequirements) Decision
	CanonicalDashboard(accountType model.AccountType) string
}

type accessService struct{}

func NewAccessService() AccessService {
	return &accessService{}
}

// Decide evaluates the rules in a fixed order; the first matching rule wins.
// The order is load-bearing: reordering changes behavior.
func (s *accessService) Decide(sessionResolved bool, user *model.User, route RouteRequirements) Decision {
	// 1. Session check still in flight: render nothing yet, otherwise the
	// user sees a flash of the wrong content.
	if !sessionResolved {
		return Decision{Kind: DecisionIndeterminate}
	}

	// 2. Signed-in users do not revisit public-only pages (landing, signup);
	// send them to their own dashboard.
	if !route.RequiresAuth && user != nil {
		return Decision{Kind: DecisionRedirect, Target: s.CanonicalDashboard(user.AccountType)}
	}

	// 3. Protected destination without a session.
	if route.RequiresAuth && user == nil {
		return Decision{Kind: DecisionRedirect, Target: PathSignIn}
	}

	// 4. Profile-gated destination with an incomplete profile. Applies to
	// every account type, gym owners and trainers included.
	if route.RequiresCompleteProfile {
		if user == nil {
			return Decision{Kind: DecisionRedirect, Target: PathSignIn}
		}
		if !user.ProfileComplete {
			return Decision{Kind: DecisionRedirect, Target: PathProfileSetup}
		}
	}

	// 5. Role and account-type gates. An unsatisfied gate reroutes silently
	// to the user's own dashboard; there is no 403 page. A gated route
	// implies a session even when the route forgot to say RequiresAuth.
	if user == nil {
		if route.RequiredRole != "" || route.RequiredAccountType != "" {
			return Decision{Kind: DecisionRedirect, Target: PathSignIn}
		}
		return Decision{Kind: DecisionAllow}
	}
	if route.RequiredRole != "" && !model.HasRole(user.Role, route.RequiredRole) {
		return Decision{Kind: DecisionRedirect, Target: s.CanonicalDashboard(user.AccountType)}
	}
	if route.RequiredAccountType != "" && user.AccountType != route.RequiredAccountType {
		return Decision{Kind: DecisionRedirect, Target: s.CanonicalDashboard(user.AccountType)}
	}

	// 6. Nothing left to check.
	return Decision{Kind: DecisionAllow}
}

// CanonicalDashboard maps an account type to its home dashboard. Unknown
// account types get the standard dashboard, which carries no gates, so every
// redirect terminates after one hop.
func (s *accessService) CanonicalDashboard(accountType model.AccountType) string {
	switch accountType {
	case model.AccountTypeGymOwner:
		return PathGymDashboard
	case model.AccountTypePersonalTrainer:
		return PathTrainerDashboard
	default:
		return PathDashboard
	}
}
