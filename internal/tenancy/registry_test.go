package tenancy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNamesFollowConvention(t *testing.T) {
	for _, def := range AllPermissions() {
		parts := strings.SplitN(def.Name, ".", 2)
		require.Len(t, parts, 2, "permission %q must be resource.action", def.Name)
		assert.Equal(t, def.Resource, parts[0])
		assert.Equal(t, def.Action, parts[1])
		assert.NotEmpty(t, def.Description)
	}
}

func TestRegistryHasNoDuplicates(t *testing.T) {
	seen := map[string]struct{}{}
	for _, def := range AllPermissions() {
		_, dup := seen[def.Name]
		assert.False(t, dup, "duplicate permission %q", def.Name)
		seen[def.Name] = struct{}{}
	}
}

func TestIsRegistered(t *testing.T) {
	assert.True(t, IsRegistered(PermUsersView))
	assert.True(t, IsRegistered(PermSubscriptionManage))
	assert.False(t, IsRegistered("made.up"))
	assert.False(t, IsRegistered(""))
}

func TestDefaultRolesReferenceRegisteredPermissions(t *testing.T) {
	roles := DefaultRoles()
	require.NotEmpty(t, roles)

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
		for _, p := range role.Permissions {
			assert.True(t, IsRegistered(p), "role %s grants unregistered %q", role.Name, p)
		}
	}
	assert.Equal(t, []string{"Owner", "Admin", "Manager", "Cashier", "Viewer"}, names)
}

func TestOwnerHoldsEveryPermission(t *testing.T) {
	var owner *RoleDef
	roles := DefaultRoles()
	for i := range roles {
		if roles[i].Name == "Owner" {
			owner = &roles[i]
			break
		}
	}
	require.NotNil(t, owner)
	assert.Len(t, owner.Permissions, len(AllPermissions()))
}
