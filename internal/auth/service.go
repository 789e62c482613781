package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort defines the account lookups the service needs.
type RepositoryPort interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo   RepositoryPort
	issuer *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort, issuer *TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a bearer token carrying the user's principal claims.
func (s *Service) IssueToken(user *User) (string, error) {
	return s.issuer.Issue(user.Principal())
}

// CurrentUser loads the fresh account record behind a verified principal.
// Token claims can lag behind role or activation changes; this read reflects
// current state.
func (s *Service) CurrentUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
