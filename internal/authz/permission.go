package authz

// Permission is an atomic capability tag of the form <resource>.<verb>.
type Permission string

// Order permissions.
const (
	PermOrdersView   Permission = "orders.view"
	PermOrdersCreate Permission = "orders.create"
	PermOrdersUpdate Permission = "orders.update"
	PermOrdersCancel Permission = "orders.cancel"
)

// Product permissions.
const (
	PermProductsView   Permission = "products.view"
	PermProductsCreate Permission = "products.create"
	PermProductsUpdate Permission = "products.update"
	PermProductsDelete Permission = "products.delete"
)

// User and permission administration.
const (
	PermUsersView         Permission = "users.view"
	PermUsersManage       Permission = "users.manage"
	PermPermissionsView   Permission = "permissions.view"
	PermPermissionsManage Permission = "permissions.manage"
)

// AllPermissions lists every permission in the catalog.
func AllPermissions() []Permission {
	return []Permission{
		PermOrdersView, PermOrdersCreate, PermOrdersUpdate, PermOrdersCancel,
		PermProductsView, PermProductsCreate, PermProductsUpdate, PermProductsDelete,
		PermUsersView, PermUsersManage,
		PermPermissionsView, PermPermissionsManage,
	}
}

// knownPermissions backs Valid lookups.
var knownPermissions = func() map[Permission]struct{} {
	set := make(map[Permission]struct{})
	for _, p := range AllPermissions() {
		set[p] = struct{}{}
	}
	return set
}()

// Valid reports whether the permission belongs to the catalog.
func (p Permission) Valid() bool {
	_, ok := knownPermissions[p]
	return ok
}

// PermissionSet is an unordered collection of permissions.
type PermissionSet map[Permission]struct{}

// Has reports membership.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Names returns the set as a sorted-insensitive slice for serialization.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, p := range AllPermissions() {
		if s.Has(p) {
			names = append(names, string(p))
		}
	}
	return names
}

// UniversalSet returns a set containing every catalog permission.
func UniversalSet() PermissionSet {
	all := AllPermissions()
	set := make(PermissionSet, len(all))
	for _, p := range all {
		set[p] = struct{}{}
	}
	return set
}
