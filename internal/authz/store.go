package authz

import "context"

// Principal is the resolved identity of the caller for one request. It is
// built once by the authentication layer and treated as immutable input.
type Principal struct {
	ID         int64
	Role       Role
	MerchantID *int64
	IsActive   bool
}

// EffectiveMerchantID resolves the merchant scope of a principal. A merchant
// without an assigned merchant_id uses its own id as merchant scope
// (self-merchant convention).
func (p Principal) EffectiveMerchantID() int64 {
	if p.MerchantID != nil {
		return *p.MerchantID
	}
	return p.ID
}

// PermissionOverride is a per-user grant/revoke record adjusting role
// defaults. At most one row exists per (user, permission); the latest write
// wins.
type PermissionOverride struct {
	UserID     int64
	Permission Permission
	Granted    bool
}

// UserRef is the subset of a user record the resolver needs to authorize
// override mutations.
type UserRef struct {
	ID         int64
	Role       Role
	MerchantID *int64
	IsActive   bool
}

// OverrideStore persists permission overrides. Implementations must make
// UpsertOverride atomic per (user_id, permission).
type OverrideStore interface {
	ListOverrides(ctx context.Context, userID int64) ([]PermissionOverride, error)
	UpsertOverride(ctx context.Context, userID int64, permission Permission, granted bool) error
}

// UserDirectory resolves user references for override mutations. A missing
// user yields ErrNotFound.
type UserDirectory interface {
	FindUserRef(ctx context.Context, id int64) (UserRef, error)
}

// OwnerInfo carries the owning identities recorded on a resource instance.
type OwnerInfo struct {
	OwnerID    int64
	MerchantID int64
}

// OwnerInfoSource resolves a resource's owner and merchant identifiers for
// per-instance checks. A missing resource yields ErrNotFound.
type OwnerInfoSource interface {
	OwnerInfo(ctx context.Context, resourceID int64) (OwnerInfo, error)
}
