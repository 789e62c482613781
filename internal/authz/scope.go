package authz

// ScopeFilter declares equality constraints a listing query must apply.
// An empty filter means no restriction. A deny-all filter matches nothing.
type ScopeFilter struct {
	constraints map[string]int64
	denyAll     bool
}

// Unrestricted returns a filter imposing no constraints.
func Unrestricted() ScopeFilter {
	return ScopeFilter{}
}

// DenyAll returns the never-matching sentinel filter.
func DenyAll() ScopeFilter {
	return ScopeFilter{denyAll: true}
}

// FilterBy returns a filter constraining a single field to a value.
func FilterBy(field string, value int64) ScopeFilter {
	return ScopeFilter{constraints: map[string]int64{field: value}}
}

// IsDenyAll reports whether the filter matches nothing.
func (f ScopeFilter) IsDenyAll() bool {
	return f.denyAll
}

// Constraints returns a copy of the field equality constraints.
func (f ScopeFilter) Constraints() map[string]int64 {
	out := make(map[string]int64, len(f.constraints))
	for k, v := range f.constraints {
		out[k] = v
	}
	return out
}

// ScopeFor computes the data-visibility filter for listing resources.
// Viewer's read-only restriction lives at the permission layer, not here.
// Unrecognized roles fall to the deny-all sentinel so a new role never
// silently sees all data.
func ScopeFor(p *Principal) ScopeFilter {
	if p == nil {
		return DenyAll()
	}
	switch p.Role {
	case RoleSuperAdmin, RoleAdmin, RoleViewer:
		return Unrestricted()
	case RoleMerchant:
		return FilterBy("merchant_id", p.EffectiveMerchantID())
	case RoleCustomer:
		return FilterBy("customer_id", p.ID)
	default:
		return DenyAll()
	}
}
