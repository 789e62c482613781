package authz

import (
	"context"
	"fmt"
)

// Resolver combines role defaults with stored per-user overrides into
// effective permission sets.
type Resolver struct {
	store OverrideStore
	users UserDirectory
}

// NewResolver constructs a Resolver.
func NewResolver(store OverrideStore, users UserDirectory) *Resolver {
	return &Resolver{store: store, users: users}
}

// EffectivePermissions folds the user's overrides over the role defaults.
// Grants add, revokes remove (even defaults). SuperAdmin short-circuits to
// the universal set and cannot be downgraded via overrides.
func (r *Resolver) EffectivePermissions(ctx context.Context, userID int64, role Role) (PermissionSet, error) {
	if role == RoleSuperAdmin {
		return UniversalSet(), nil
	}

	set, err := DefaultPermissions(role)
	if err != nil {
		return nil, err
	}

	overrides, err := r.store.ListOverrides(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("authz: list overrides: %w", err)
	}
	for _, o := range overrides {
		if o.Granted {
			set[o.Permission] = struct{}{}
		} else {
			delete(set, o.Permission)
		}
	}
	return set, nil
}

// HasPermission reports whether the user's effective set contains perm.
func (r *Resolver) HasPermission(ctx context.Context, userID int64, role Role, perm Permission) (bool, error) {
	if role == RoleSuperAdmin {
		return true, nil
	}
	set, err := r.EffectivePermissions(ctx, userID, role)
	if err != nil {
		return false, err
	}
	return set.Has(perm), nil
}

// RequireAnyPermission succeeds when the principal holds at least one of the
// listed permissions. Checks are pure and independent, so passing on the
// first hit is safe.
func (r *Resolver) RequireAnyPermission(ctx context.Context, principal *Principal, perms ...Permission) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	set, err := r.EffectivePermissions(ctx, principal.ID, principal.Role)
	if err != nil {
		return err
	}
	for _, p := range perms {
		if set.Has(p) {
			return nil
		}
	}
	return fmt.Errorf("%w: missing permission", ErrForbidden)
}

// GrantOrRevoke upserts the single override row for (target, permission).
// Only Admin and SuperAdmin actors may mutate overrides, and overrides on a
// SuperAdmin target require a SuperAdmin actor.
func (r *Resolver) GrantOrRevoke(ctx context.Context, actor *Principal, targetID int64, perm Permission, granted bool) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.Role != RoleAdmin && actor.Role != RoleSuperAdmin {
		return fmt.Errorf("%w: only administrators may change permissions", ErrForbidden)
	}
	if !perm.Valid() {
		return fmt.Errorf("%w: unknown permission %q", ErrConfiguration, string(perm))
	}

	target, err := r.users.FindUserRef(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == RoleSuperAdmin && actor.Role != RoleSuperAdmin {
		return fmt.Errorf("%w: cannot change permissions of a super admin", ErrForbidden)
	}

	if err := r.store.UpsertOverride(ctx, targetID, perm, granted); err != nil {
		return fmt.Errorf("authz: upsert override: %w", err)
	}
	return nil
}
