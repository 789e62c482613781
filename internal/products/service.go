package products

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/platform/httpx"
)

// Service composes the permission gate with catalog persistence.
type Service struct {
	repo   Repository
	gate   *authz.Gate
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, gate *authz.Gate, logger *slog.Logger) *Service {
	return &Service{repo: repo, gate: gate, logger: logger}
}

// List returns catalog rows visible to the principal.
func (s *Service) List(ctx context.Context, principal *authz.Principal, req ListProductsRequest) ([]Product, int, error) {
	scope, err := s.gate.AuthorizeList(ctx, principal, authz.PermProductsView)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req, scope)
}

// Get returns a single product after the per-instance access check.
func (s *Service) Get(ctx context.Context, principal *authz.Principal, id int64) (*Product, error) {
	err := s.gate.AuthorizeResource(ctx, principal, s.repo, id, authz.PermProductsView, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create adds a catalog row. Merchants always create under their own tenant;
// admin callers must name the target merchant explicitly.
func (s *Service) Create(ctx context.Context, principal *authz.Principal, req CreateProductRequest) (*Product, error) {
	if principal == nil {
		return nil, authz.ErrUnauthenticated
	}
	if err := s.gate.RequirePermission(ctx, principal, authz.PermProductsCreate); err != nil {
		return nil, err
	}

	merchantID := req.MerchantID
	if principal.Role == authz.RoleMerchant {
		merchantID = principal.EffectiveMerchantID()
	}
	if merchantID <= 0 {
		return nil, fmt.Errorf("%w: merchant_id is required", httpx.ErrValidation)
	}

	id, err := s.repo.Create(ctx, Product{
		MerchantID:  merchantID,
		CreatedBy:   principal.ID,
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Active:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update mutates a product after the per-instance access check.
func (s *Service) Update(ctx context.Context, principal *authz.Principal, id int64, req UpdateProductRequest) (*Product, error) {
	err := s.gate.AuthorizeResource(ctx, principal, s.repo, id, authz.PermProductsUpdate, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product after the per-instance access check.
func (s *Service) Delete(ctx context.Context, principal *authz.Principal, id int64) error {
	err := s.gate.AuthorizeResource(ctx, principal, s.repo, id, authz.PermProductsDelete, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("product deleted",
			slog.Int64("product_id", id),
			slog.Int64("actor_id", principal.ID))
	}
	return nil
}
