package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleLevel_Ordering(t *testing.T) {
	assert.Less(t, RoleLevel(RoleUser), RoleLevel(RoleModerator))
	assert.Less(t, RoleLevel(RoleModerator), RoleLevel(RoleAdmin))
	assert.Equal(t, 0, RoleLevel(UserRole("superuser")))
	assert.Equal(t, 0, RoleLevel(UserRole("")))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleModerator))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole(UserRole("owner")))
	assert.False(t, IsValidRole(UserRole("")))
	assert.False(t, IsValidRole(UserRole("Admin"))) // role names are case sensitive
}

func TestHasRole(t *testing.T) {
	tests := []struct {
		name     string
		userRole UserRole
		required UserRole
		want     bool
	}{
		{"user meets user", RoleUser, RoleUser, true},
		{"user below moderator", RoleUser, RoleModerator, false},
		{"user below admin", RoleUser, RoleAdmin, false},
		{"moderator meets user", RoleModerator, RoleUser, true},
		{"moderator meets moderator", RoleModerator, RoleModerator, true},
		{"moderator below admin", RoleModerator, RoleAdmin, false},
		{"admin meets everything", RoleAdmin, RoleUser, true},
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
		{"unknown role fails user check", UserRole("guest"), RoleUser, false},
		{"unknown role fails admin check", UserRole("guest"), RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasRole(tt.userRole, tt.required))
		})
	}
}

func TestHasPermission_FailsClosed(t *testing.T) {
	assert.False(t, HasPermission(UserRole("superadmin"), PermissionViewGyms))
	assert.False(t, HasPermission(UserRole(""), PermissionViewGyms))
	assert.False(t, HasPermission(RoleUser, Permission("unknown_permission")))
}

// Each tier must hold every permission of the tier below it.
func TestRolePermissions_MonotonicSupersets(t *testing.T) {
	userPerms := PermissionsForRole(RoleUser)
	moderatorPerms := PermissionsForRole(RoleModerator)
	adminPerms := PermissionsForRole(RoleAdmin)

	assert.NotEmpty(t, userPerms)
	assert.Greater(t, len(moderatorPerms), len(userPerms))
	assert.Greater(t, len(adminPerms), len(moderatorPerms))

	for _, p := range userPerms {
		assert.True(t, HasPermission(RoleModerator, p), "moderator missing user permission %s", p)
		assert.True(t, HasPermission(RoleAdmin, p), "admin missing user permission %s", p)
	}
	for _, p := range moderatorPerms {
		assert.True(t, HasPermission(RoleAdmin, p), "admin missing moderator permission %s", p)
	}
}

func TestRolePermissions_TierCapabilities(t *testing.T) {
	// Baseline capabilities for every member
	assert.True(t, HasPermission(RoleUser, PermissionViewGyms))
	assert.True(t, HasPermission(RoleUser, PermissionCreateWorkouts))
	assert.True(t, HasPermission(RoleUser, PermissionSendMessages))

	// Moderation capabilities start at moderator
	assert.False(t, HasPermission(RoleUser, PermissionModerateContent))
	assert.True(t, HasPermission(RoleModerator, PermissionModerateContent))
	assert.True(t, HasPermission(RoleModerator, PermissionReviewReports))

	// Administrative capabilities are admin only
	assert.False(t, HasPermission(RoleModerator, PermissionManageVerifications))
	assert.False(t, HasPermission(RoleModerator, PermissionManageRoles))
	assert.True(t, HasPermission(RoleAdmin, PermissionManageVerifications))
	assert.True(t, HasPermission(RoleAdmin, PermissionManageRoles))
	assert.True(t, HasPermission(RoleAdmin, PermissionViewAdminDashboard))
	assert.True(t, HasPermission(RoleAdmin, PermissionExportReports))
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	assert.True(t, HasAnyPermission(RoleUser, PermissionModerateContent, PermissionViewGyms))
	assert.False(t, HasAnyPermission(RoleUser, PermissionModerateContent, PermissionManageRoles))

	assert.True(t, HasAllPermissions(RoleAdmin, PermissionViewGyms, PermissionManageRoles))
	assert.False(t, HasAllPermissions(RoleModerator, PermissionViewGyms, PermissionManageRoles))
}

func TestPermissionsForRole_ReturnsCopy(t *testing.T) {
	perms := PermissionsForRole(RoleUser)
	perms[0] = Permission("tampered")

	again := PermissionsForRole(RoleUser)
	assert.NotEqual(t, Permission("tampered"), again[0])
}
