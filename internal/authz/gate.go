package authz

import (
	"context"
	"errors"
	"fmt"
)

// DecisionRecorder receives the outcome of each gate evaluation, typically
// for metrics. Implementations must be safe for concurrent use.
type DecisionRecorder interface {
	Decision(operation string, allowed bool)
}

type nopRecorder struct{}

func (nopRecorder) Decision(string, bool) {}

// Gate is the per-request entry point composing coarse permission checks,
// per-instance ownership checks and data scoping. Decisions are recomputed
// on every call; nothing is cached across requests.
type Gate struct {
	resolver *Resolver
	recorder DecisionRecorder
}

// NewGate constructs a Gate. The recorder may be nil.
func NewGate(resolver *Resolver, recorder DecisionRecorder) *Gate {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Gate{resolver: resolver, recorder: recorder}
}

func (g *Gate) checkPrincipal(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.IsActive {
		return fmt.Errorf("%w: account disabled", ErrForbidden)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrConfiguration, string(p.Role))
	}
	return nil
}

// AuthorizeList performs the coarse permission check for a list operation and
// hands back the scope filter the query layer must apply.
func (g *Gate) AuthorizeList(ctx context.Context, principal *Principal, perm Permission) (ScopeFilter, error) {
	if err := g.checkPrincipal(principal); err != nil {
		g.record("list", err)
		return DenyAll(), err
	}
	if err := g.resolver.RequireAnyPermission(ctx, principal, perm); err != nil {
		g.record("list", err)
		return DenyAll(), err
	}
	g.record("list", nil)
	return ScopeFor(principal), nil
}

// RequirePermission performs the coarse permission check alone, for
// operations with no per-instance target such as creation.
func (g *Gate) RequirePermission(ctx context.Context, principal *Principal, perms ...Permission) error {
	if err := g.checkPrincipal(principal); err != nil {
		g.record("permission", err)
		return err
	}
	err := g.resolver.RequireAnyPermission(ctx, principal, perms...)
	g.record("permission", err)
	return err
}

// AuthorizeResource authorizes a single-resource operation: coarse permission
// first, then the per-instance ownership check against the resource's
// recorded owner and merchant identifiers.
func (g *Gate) AuthorizeResource(ctx context.Context, principal *Principal, source OwnerInfoSource, resourceID int64, perm Permission, action Action) error {
	err := g.authorizeInstance(ctx, principal, source, resourceID, perm, action, CanAccess)
	g.record(string(action), err)
	return err
}

// AuthorizeCancel authorizes a cancellation through the stricter CanCancel
// predicate. The pre-cancel status guard is a separate business rule layered
// by the resource's own service after this succeeds.
func (g *Gate) AuthorizeCancel(ctx context.Context, principal *Principal, source OwnerInfoSource, resourceID int64) error {
	err := g.authorizeInstance(ctx, principal, source, resourceID, PermOrdersCancel, ActionCancel, CanCancel)
	g.record("cancel", err)
	return err
}

func (g *Gate) authorizeInstance(
	ctx context.Context,
	principal *Principal,
	source OwnerInfoSource,
	resourceID int64,
	perm Permission,
	action Action,
	predicate func(AccessContext) bool,
) error {
	if err := g.checkPrincipal(principal); err != nil {
		return err
	}
	if err := g.resolver.RequireAnyPermission(ctx, principal, perm); err != nil {
		return err
	}

	info, err := source.OwnerInfo(ctx, resourceID)
	if err != nil {
		// A lookup failure is not a denial; propagate unchanged.
		return err
	}

	allowed := predicate(AccessContext{
		Principal:          principal,
		ResourceOwnerID:    info.OwnerID,
		ResourceMerchantID: info.MerchantID,
		Action:             action,
	})
	if !allowed {
		return fmt.Errorf("%w: not permitted for this resource", ErrForbidden)
	}
	return nil
}

func (g *Gate) record(operation string, err error) {
	// Storage and lookup failures are not decisions.
	if err != nil && !errors.Is(err, ErrForbidden) && !errors.Is(err, ErrUnauthenticated) {
		return
	}
	g.recorder.Decision(operation, err == nil)
}
