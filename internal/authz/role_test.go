package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRanksAreStrictlyOrdered(t *testing.T) {
	order := []Role{RoleViewer, RoleCustomer, RoleMerchant, RoleAdmin, RoleSuperAdmin}
	prev := 0
	for _, role := range order {
		rank, err := role.Rank()
		require.NoError(t, err)
		assert.Greater(t, rank, prev, "rank for %s", role)
		prev = rank
	}
}

func TestParseRoleRejectsUnknownValues(t *testing.T) {
	_, err := ParseRole("warehouse_bot")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	role, err := ParseRole("merchant")
	require.NoError(t, err)
	assert.Equal(t, RoleMerchant, role)
}

func TestSuperAdminDefaultsAreUniversal(t *testing.T) {
	defaults, err := DefaultPermissions(RoleSuperAdmin)
	require.NoError(t, err)
	for _, p := range AllPermissions() {
		assert.True(t, defaults.Has(p), "missing %s", p)
	}
}

func TestDefaultsAreNotMonotonicAcrossRanks(t *testing.T) {
	admin, err := DefaultPermissions(RoleAdmin)
	require.NoError(t, err)
	customer, err := DefaultPermissions(RoleCustomer)
	require.NoError(t, err)

	// Admin outranks Customer but does not place orders.
	assert.False(t, admin.Has(PermOrdersCreate))
	assert.True(t, customer.Has(PermOrdersCreate))
}

func TestDefaultPermissionsReturnsFreshCopies(t *testing.T) {
	first, err := DefaultPermissions(RoleViewer)
	require.NoError(t, err)
	first[PermUsersManage] = struct{}{}

	second, err := DefaultPermissions(RoleViewer)
	require.NoError(t, err)
	assert.False(t, second.Has(PermUsersManage), "catalog must be immutable")
}

func TestDefaultPermissionsUnknownRole(t *testing.T) {
	_, err := DefaultPermissions(Role("intern"))
	assert.ErrorIs(t, err, ErrConfiguration)
}
