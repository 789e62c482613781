package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/shared"
)

// AuditPort records security-relevant order events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service composes the permission gate with order persistence. Authorization
// is evaluated on every call against current override state.
type Service struct {
	repo   Repository
	gate   *authz.Gate
	owners authz.OwnerInfoSource
	audit  AuditPort
	logger *slog.Logger
}

// NewService constructs a Service. The owner source may be the repository
// itself or a read-through cache wrapping it; audit may be nil.
func NewService(repo Repository, gate *authz.Gate, owners authz.OwnerInfoSource, audit AuditPort, logger *slog.Logger) *Service {
	if owners == nil {
		owners = repo
	}
	return &Service{repo: repo, gate: gate, owners: owners, audit: audit, logger: logger}
}

// List returns the orders visible to the principal, restricted by the
// authorization scope filter.
func (s *Service) List(ctx context.Context, principal *authz.Principal, req ListOrdersRequest) ([]Order, int, error) {
	scope, err := s.gate.AuthorizeList(ctx, principal, authz.PermOrdersView)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req, scope)
}

// Get returns a single order after the per-instance ownership check.
func (s *Service) Get(ctx context.Context, principal *authz.Principal, id int64) (*Order, error) {
	err := s.gate.AuthorizeResource(ctx, principal, s.owners, id, authz.PermOrdersView, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create places a new order owned by the principal.
func (s *Service) Create(ctx context.Context, principal *authz.Principal, req CreateOrderRequest) (*Order, error) {
	if principal == nil {
		return nil, authz.ErrUnauthenticated
	}
	if err := s.gate.RequirePermission(ctx, principal, authz.PermOrdersCreate); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, Order{
		CustomerID:  principal.ID,
		MerchantID:  req.MerchantID,
		Status:      StatusPending,
		Currency:    req.Currency,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update mutates a pending order after the general access check.
func (s *Service) Update(ctx context.Context, principal *authz.Principal, id int64, req UpdateOrderRequest) (*Order, error) {
	err := s.gate.AuthorizeResource(ctx, principal, s.owners, id, authz.PermOrdersUpdate, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be updated", authz.ErrInvalidState)
	}

	updates := make(map[string]any)
	if req.TotalAmount != nil {
		updates["total_amount"] = *req.TotalAmount
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update order: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

// Cancel cancels an order. Authorization (the strict cancel predicate) and
// the pre-cancel status guard are independent axes: a caller passing the
// first can still fail the second.
func (s *Service) Cancel(ctx context.Context, principal *authz.Principal, id int64, reason string) (*Order, error) {
	if err := s.gate.AuthorizeCancel(ctx, principal, s.owners, id); err != nil {
		if errors.Is(err, authz.ErrForbidden) && s.audit != nil && principal != nil {
			if auditErr := s.audit.Record(ctx, shared.AuditLog{
				ActorID:  principal.ID,
				Action:   "order.cancel.denied",
				Entity:   "order",
				EntityID: fmt.Sprintf("%d", id),
			}); auditErr != nil && s.logger != nil {
				s.logger.Warn("audit denied cancellation", slog.Any("error", auditErr))
			}
		}
		return nil, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.Cancellable() {
		return nil, fmt.Errorf("%w: order is %s, cancellation requires pending or confirmed",
			authz.ErrInvalidState, existing.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled, principal.ID, &reason); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("order cancelled",
			slog.Int64("order_id", id),
			slog.Int64("actor_id", principal.ID))
	}
	return s.repo.Get(ctx, id)
}
