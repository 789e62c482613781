package authz

import "fmt"

// Role is a closed enumeration of identity categories with a strict rank order.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleMerchant   Role = "merchant"
	RoleCustomer   Role = "customer"
	RoleViewer     Role = "viewer"
)

// roleRanks is the total order over roles. Higher outranks lower.
var roleRanks = map[Role]int{
	RoleSuperAdmin: 5,
	RoleAdmin:      4,
	RoleMerchant:   3,
	RoleCustomer:   2,
	RoleViewer:     1,
}

// roleDefaults maps each role to its default permission set. The sets are
// intentionally non-monotonic across ranks: Admin does not hold orders.create
// while Customer does. Rank ordering and permission membership are separate
// mechanisms.
var roleDefaults = map[Role][]Permission{
	RoleSuperAdmin: AllPermissions(),
	RoleAdmin: {
		PermOrdersView, PermOrdersUpdate, PermOrdersCancel,
		PermProductsView, PermProductsCreate, PermProductsUpdate, PermProductsDelete,
		PermUsersView, PermUsersManage,
		PermPermissionsView, PermPermissionsManage,
	},
	RoleMerchant: {
		PermOrdersView, PermOrdersUpdate, PermOrdersCancel,
		PermProductsView, PermProductsCreate, PermProductsUpdate, PermProductsDelete,
	},
	RoleCustomer: {
		PermOrdersView, PermOrdersCreate, PermOrdersCancel,
		PermProductsView,
	},
	RoleViewer: {
		PermOrdersView,
		PermProductsView,
	},
}

// ParseRole validates a raw role string against the closed enumeration.
// Unknown values are a configuration error, never silently downgraded.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if _, ok := roleRanks[role]; !ok {
		return "", fmt.Errorf("%w: unknown role %q", ErrConfiguration, raw)
	}
	return role, nil
}

// Rank returns the ordinal rank of a role.
func (r Role) Rank() (int, error) {
	rank, ok := roleRanks[r]
	if !ok {
		return 0, fmt.Errorf("%w: unknown role %q", ErrConfiguration, string(r))
	}
	return rank, nil
}

// Valid reports whether the role belongs to the enumeration.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// DefaultPermissions returns a fresh copy of the role's default permission set.
func DefaultPermissions(role Role) (PermissionSet, error) {
	defaults, ok := roleDefaults[role]
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrConfiguration, string(role))
	}
	set := make(PermissionSet, len(defaults))
	for _, p := range defaults {
		set[p] = struct{}{}
	}
	return set, nil
}
