package service

import (
	"testing"

	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func completeUser(accountType model.AccountType, role model.UserRole) *model.User {
	return &model.User{
		ID:              1,
		Email:           "member@example.com",
		Role:            role,
		AccountType:     accountType,
		ProfileComplete: true,
	}
}

func TestAccessService_Decide_SessionPending(t *testing.T) {
	svc := NewAccessService()

	// While the session is unresolved the decision is always indeterminate,
	// whatever the route asks for.
	routes := []RouteRequirements{
		{},
		{RequiresAuth: true},
		{RequiresAuth: true, RequiresCompleteProfile: true},
		{RequiresAuth: true, RequiredRole: model.RoleAdmin},
	}

	for _, route := range routes {
		decision := svc.Decide(false, nil, route)
		assert.Equal(t, DecisionIndeterminate, decision.Kind)
		assert.Empty(t, decision.Target)
	}
}

func TestAccessService_Decide_PublicOnlyRedirectsSignedIn(t *testing.T) {
	svc := NewAccessService()

	tests := []struct {
		name       string
		user       *model.User
		wantTarget string
	}{
		{"standard member", completeUser(model.AccountTypeStandard, model.RoleUser), PathDashboard},
		{"gym owner", completeUser(model.AccountTypeGymOwner, model.RoleUser), PathGymDashboard},
		{"personal trainer", completeUser(model.AccountTypePersonalTrainer, model.RoleUser), PathTrainerDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := svc.Decide(true, tt.user, RouteRequirements{})
			assert.Equal(t, DecisionRedirect, decision.Kind)
			assert.Equal(t, tt.wantTarget, decision.Target)
		})
	}
}

func TestAccessService_Decide_GuestOnProtectedRoute(t *testing.T) {
	svc := NewAccessService()

	decision := svc.Decide(true, nil, RouteRequirements{RequiresAuth: true})
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, PathSignIn, decision.Target)
}

func TestAccessService_Decide_IncompleteProfile(t *testing.T) {
	svc := NewAccessService()

	route := RouteRequirements{RequiresAuth: true, RequiresCompleteProfile: true}

	// Profile setup applies to every account type equally
	for _, accountType := range []model.AccountType{
		model.AccountTypeStandard,
		model.AccountTypeGymOwner,
		model.AccountTypePersonalTrainer,
	} {
		user := completeUser(accountType, model.RoleUser)
		user.ProfileComplete = false

		decision := svc.Decide(true, user, route)
		assert.Equal(t, DecisionRedirect, decision.Kind)
		assert.Equal(t, PathProfileSetup, decision.Target)
	}

	// A complete profile passes the gate
	decision := svc.Decide(true, completeUser(model.AccountTypeStandard, model.RoleUser), route)
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestAccessService_Decide_RoleGate(t *testing.T) {
	svc := NewAccessService()

	route := RouteRequirements{
		RequiresAuth: true,
		RequiredRole: model.RoleAdmin,
	}

	// Insufficient role reroutes to the user's own dashboard, never a 403
	owner := completeUser(model.AccountTypeGymOwner, model.RoleUser)
	decision := svc.Decide(true, owner, route)
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, PathGymDashboard, decision.Target)

	// A higher role passes a lower gate
	moderatorRoute := RouteRequirements{RequiresAuth: true, RequiredRole: model.RoleModerator}
	admin := completeUser(model.AccountTypeStandard, model.RoleAdmin)
	assert.Equal(t, DecisionAllow, svc.Decide(true, admin, moderatorRoute).Kind)

	// Unknown roles fail every gate
	unknown := completeUser(model.AccountTypeStandard, model.UserRole("mystery"))
	decision = svc.Decide(true, unknown, moderatorRoute)
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, PathDashboard, decision.Target)
}

func TestAccessService_Decide_AccountTypeGate(t *testing.T) {
	svc := NewAccessService()

	route := RouteRequirements{
		RequiresAuth:        true,
		RequiredAccountType: model.AccountTypeGymOwner,
	}

	trainer := completeUser(model.AccountTypePersonalTrainer, model.RoleUser)
	decision := svc.Decide(true, trainer, route)
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, PathTrainerDashboard, decision.Target)

	owner := completeUser(model.AccountTypeGymOwner, model.RoleUser)
	assert.Equal(t, DecisionAllow, svc.Decide(true, owner, route).Kind)

	// Role does not substitute for account type: an admin with a standard
	// account still cannot enter the gym dashboard.
	admin := completeUser(model.AccountTypeStandard, model.RoleAdmin)
	decision = svc.Decide(true, admin, route)
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, PathDashboard, decision.Target)
}

func TestAccessService_Decide_GatedRouteWithoutAuthFlag(t *testing.T) {
	svc := NewAccessService()

	// A route that forgot RequiresAuth but carries a gate still demands a
	// session for guests instead of blowing up.
	route := RouteRequirements{RequiredRole: model.RoleAdmin}
	decision := svc.Decide(true, nil, route)
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, PathSignIn, decision.Target)
}

func TestAccessService_Decide_GuestOnPublicRoute(t *testing.T) {
	svc := NewAccessService()

	decision := svc.Decide(true, nil, RouteRequirements{})
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestAccessService_Decide_Deterministic(t *testing.T) {
	svc := NewAccessService()

	user := completeUser(model.AccountTypeGymOwner, model.RoleUser)
	route := RouteRequirements{RequiresAuth: true, RequiredRole: model.RoleAdmin}

	first := svc.Decide(true, user, route)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, svc.Decide(true, user, route))
	}
}

func TestAccessService_CanonicalDashboard(t *testing.T) {
	svc := NewAccessService()

	assert.Equal(t, PathDashboard, svc.CanonicalDashboard(model.AccountTypeStandard))
	assert.Equal(t, PathGymDashboard, svc.CanonicalDashboard(model.AccountTypeGymOwner))
	assert.Equal(t, PathTrainerDashboard, svc.CanonicalDashboard(model.AccountTypePersonalTrainer))

	// Unknown account types land on the standard dashboard so redirects
	// always terminate in one hop
	assert.Equal(t, PathDashboard, svc.CanonicalDashboard(model.AccountType("corporate")))
}

// Full navigation matrix for a signed-in gym owner mid-onboarding.
func TestAccessService_Decide_Scenarios(t *testing.T) {
	svc := NewAccessService()

	incompleteOwner := completeUser(model.AccountTypeGymOwner, model.RoleUser)
	incompleteOwner.ProfileComplete = false

	tests := []struct {
		name       string
		user       *model.User
		route      RouteRequirements
		wantKind   DecisionKind
		wantTarget string
	}{
		{
			name:       "landing page bounces to gym dashboard",
			user:       incompleteOwner,
			route:      RouteRequirements{},
			wantKind:   DecisionRedirect,
			wantTarget: PathGymDashboard,
		},
		{
			name:     "profile setup itself is reachable",
			user:     incompleteOwner,
			route:    RouteRequirements{RequiresAuth: true},
			wantKind: DecisionAllow,
		},
		{
			name:       "gym dashboard gated on profile",
			user:       incompleteOwner,
			route:      RouteRequirements{RequiresAuth: true, RequiresCompleteProfile: true, RequiredAccountType: model.AccountTypeGymOwner},
			wantKind:   DecisionRedirect,
			wantTarget: PathProfileSetup,
		},
		{
			name:       "admin console out of reach",
			user:       completeUser(model.AccountTypeGymOwner, model.RoleUser),
			route:      RouteRequirements{RequiresAuth: true, RequiresCompleteProfile: true, RequiredRole: model.RoleAdmin},
			wantKind:   DecisionRedirect,
			wantTarget: PathGymDashboard,
		},
		{
			name:     "own dashboard after setup",
			user:     completeUser(model.AccountTypeGymOwner, model.RoleUser),
			route:    RouteRequirements{RequiresAuth: true, RequiresCompleteProfile: true, RequiredAccountType: model.AccountTypeGymOwner},
			wantKind: DecisionAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := svc.Decide(true, tt.user, tt.route)
			assert.Equal(t, tt.wantKind, decision.Kind)
			assert.Equal(t, tt.wantTarget, decision.Target)
		})
	}
}
