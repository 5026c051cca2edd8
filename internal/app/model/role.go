package model

// UserRole is the platform-wide privilege tier, independent of account type
type UserRole string

const (
	RoleUser      UserRole = "user"      // regular member
	RoleModerator UserRole = "moderator" // community moderation
	RoleAdmin     UserRole = "admin"     // full administrative access
)

// Permission names a capability granted to a role
type Permission string

const (
	PermissionViewGyms            Permission = "view_gyms"
	PermissionViewTrainers        Permission = "view_trainers"
	PermissionCreateWorkouts      Permission = "create_workouts"
	PermissionSendMessages        Permission = "send_messages"
	PermissionModerateContent     Permission = "moderate_content"
	PermissionReviewReports       Permission = "review_reports"
	PermissionManageVerifications Permission = "manage_verifications"
	PermissionManageRoles         Permission = "manage_roles"
	PermissionViewAdminDashboard  Permission = "view_admin_dashboard"
	PermissionExportReports       Permission = "export_reports"
)

// roleLevels orders the roles. Unknown roles map to 0, below every known
// role, so they fail every check.
var roleLevels = map[UserRole]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// rolePermissions is a static table. Each tier is a strict superset of the
// tier below it; grow it with appendPermissions to keep that invariant.
var rolePermissions = buildRolePermissions()

func buildRolePermissions() map[UserRole][]Permission {
	userPerms := []Permission{
		PermissionViewGyms,
		PermissionViewTrainers,
		PermissionCreateWorkouts,
		PermissionSendMessages,
	}
	moderatorPerms := appendPermissions(userPerms,
		PermissionModerateContent,
		PermissionReviewReports,
	)
	adminPerms := appendPermissions(moderatorPerms,
		PermissionManageVerifications,
		PermissionManageRoles,
		PermissionViewAdminDashboard,
		PermissionExportReports,
	)

	return map[UserRole][]Permission{
		RoleUser:      userPerms,
		RoleModerator: moderatorPerms,
		RoleAdmin:     adminPerms,
	}
}

func appendPermissions(base []Permission, extra ...Permission) []Permission {
	out := make([]Permission, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}

// RoleLevel returns the numeric privilege level for a role, 0 for unknown
func RoleLevel(role UserRole) int {
	return roleLevels[role]
}

// IsValidRole reports whether the role is one of the known tiers
func IsValidRole(role UserRole) bool {
	_, ok := roleLevels[role]
	return ok
}

// HasRole reports whether userRole meets or exceeds requiredRole.
// Unknown roles sit below every known role.
func HasRole(userRole, requiredRole UserRole) bool {
	return roleLevels[userRole] >= roleLevels[requiredRole]
}

// HasPermission reports whether the role's permission set contains perm.
// Unknown roles have no permissions.
func HasPermission(role UserRole, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of perms
func HasAnyPermission(role UserRole, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every one of perms
func HasAllPermissions(role UserRole, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// PermissionsForRole returns a copy of the role's permission set
func PermissionsForRole(role UserRole) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
