package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeForUnrestrictedRoles(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin, RoleViewer} {
		filter := ScopeFor(&Principal{ID: 1, Role: role, IsActive: true})
		assert.False(t, filter.IsDenyAll(), "role=%s", role)
		assert.Empty(t, filter.Constraints(), "role=%s", role)
	}
}

func TestScopeForMerchantUsesAssignedMerchantID(t *testing.T) {
	mid := int64(7)
	filter := ScopeFor(&Principal{ID: 5, Role: RoleMerchant, MerchantID: &mid, IsActive: true})
	assert.Equal(t, map[string]int64{"merchant_id": 7}, filter.Constraints())
}

func TestScopeForMerchantFallsBackToOwnID(t *testing.T) {
	filter := ScopeFor(&Principal{ID: 5, Role: RoleMerchant, IsActive: true})
	assert.Equal(t, map[string]int64{"merchant_id": 5}, filter.Constraints())
}

func TestScopeForCustomer(t *testing.T) {
	filter := ScopeFor(&Principal{ID: 10, Role: RoleCustomer, IsActive: true})
	assert.Equal(t, map[string]int64{"customer_id": 10}, filter.Constraints())
}

func TestScopeForUnknownRoleDeniesAll(t *testing.T) {
	filter := ScopeFor(&Principal{ID: 1, Role: Role("analyst"), IsActive: true})
	assert.True(t, filter.IsDenyAll())

	assert.True(t, ScopeFor(nil).IsDenyAll())
}

func TestScopeForIsDeterministic(t *testing.T) {
	mid := int64(3)
	p := &Principal{ID: 5, Role: RoleMerchant, MerchantID: &mid, IsActive: true}
	first := ScopeFor(p)
	second := ScopeFor(p)
	assert.Equal(t, first.Constraints(), second.Constraints())
	assert.Equal(t, first.IsDenyAll(), second.IsDenyAll())
}

func TestConstraintsReturnsCopy(t *testing.T) {
	filter := ScopeFor(&Principal{ID: 10, Role: RoleCustomer, IsActive: true})
	c := filter.Constraints()
	c["customer_id"] = 999
	assert.Equal(t, map[string]int64{"customer_id": 10}, filter.Constraints())
}
