package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	FindUserRef(ctx context.Context, id int64) (authz.UserRef, error)
}

// AuditPort records administrative mutations.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user management and permission administration.
type Service struct {
	repo     RepositoryPort
	resolver *authz.Resolver
	audit    AuditPort
	logger   *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, resolver *authz.Resolver, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, audit: audit, logger: logger}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// EffectivePermissions computes the target user's permission set from role
// defaults plus stored overrides.
func (s *Service) EffectivePermissions(ctx context.Context, targetID int64) ([]string, error) {
	target, err := s.repo.FindUserRef(ctx, targetID)
	if err != nil {
		return nil, err
	}
	set, err := s.resolver.EffectivePermissions(ctx, target.ID, target.Role)
	if err != nil {
		return nil, err
	}
	return set.Names(), nil
}

// SetPermission grants or revokes a single permission for the target user.
// Authorization lives in the resolver; this layer only adds the audit trail.
func (s *Service) SetPermission(ctx context.Context, actor *authz.Principal, targetID int64, perm authz.Permission, granted bool) error {
	if err := s.resolver.GrantOrRevoke(ctx, actor, targetID, perm, granted); err != nil {
		return err
	}

	action := "permission.grant"
	if !granted {
		action = "permission.revoke"
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "user",
		EntityID: fmt.Sprintf("%d", targetID),
		Meta:     map[string]any{"permission": string(perm)},
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit permission change", slog.Any("error", err))
	}
	return nil
}
