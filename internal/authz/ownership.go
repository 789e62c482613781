package authz

// Action identifies the kind of operation being authorized against a
// resource instance.
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionCancel Action = "cancel"
)

// AccessContext is assembled fresh per authorization check and discarded
// after the decision.
type AccessContext struct {
	Principal          *Principal
	ResourceOwnerID    int64
	ResourceMerchantID int64
	Action             Action
}

// CanAccess is the general read/update/delete ownership gate.
//
// Admin's blanket grant is intentional: administrators act on all resources
// at this layer, with no merchant scoping applied.
func CanAccess(ctx AccessContext) bool {
	p := ctx.Principal
	if p == nil {
		return false
	}
	switch p.Role {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleMerchant:
		if ctx.ResourceOwnerID == p.ID {
			return true
		}
		if p.MerchantID != nil && ctx.ResourceMerchantID == *p.MerchantID {
			return true
		}
		// Self-merchant convention: a merchant's own id doubles as its
		// merchant scope when no merchant_id is assigned.
		return ctx.ResourceMerchantID == p.ID
	case RoleCustomer:
		return ctx.ResourceOwnerID == p.ID
	case RoleViewer:
		return ctx.Action == ActionRead
	default:
		return false
	}
}

// CanCancel is the cancellation-specific ownership gate. It is deliberately
// narrower than CanAccess: merchants must match on merchant scope, ownership
// via the resource owner id is not accepted.
func CanCancel(ctx AccessContext) bool {
	p := ctx.Principal
	if p == nil {
		return false
	}
	switch p.Role {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleMerchant:
		if p.MerchantID != nil && ctx.ResourceMerchantID == *p.MerchantID {
			return true
		}
		return ctx.ResourceMerchantID == p.ID
	case RoleCustomer:
		return ctx.ResourceOwnerID == p.ID
	default:
		return false
	}
}
