package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vendora/vendora/internal/authz"
)

// ErrInvalidToken indicates a token that failed verification or carries
// malformed claims.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims carries the principal fields inside a signed token.
type Claims struct {
	Role       string `json:"role"`
	MerchantID *int64 `json:"merchant_id,omitempty"`
	Active     bool   `json:"active"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies principal-bearing tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer using HMAC signing.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token carrying the principal's claims.
func (t *TokenIssuer) Issue(p *authz.Principal) (string, error) {
	if p == nil {
		return "", ErrInvalidToken
	}
	now := time.Now()
	claims := Claims{
		Role:       string(p.Role),
		MerchantID: p.MerchantID,
		Active:     p.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", p.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses a signed token and resolves the principal it carries.
// The role string is validated against the closed enumeration before any
// policy code sees it.
func (t *TokenIssuer) Verify(raw string) (*authz.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method", ErrInvalidToken)
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	role, err := authz.ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}

	return &authz.Principal{
		ID:         userID,
		Role:       role,
		MerchantID: claims.MerchantID,
		IsActive:   claims.Active,
	}, nil
}
