package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/internal/authz"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	mid := int64(7)
	user := User{
		ID:         5,
		Email:      "merchant@example.com",
		Role:       authz.RoleMerchant,
		MerchantID: &mid,
		IsActive:   true,
	}

	raw, err := issuer.Issue(user.Principal())
	require.NoError(t, err)

	principal, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(5), principal.ID)
	assert.Equal(t, authz.RoleMerchant, principal.Role)
	require.NotNil(t, principal.MerchantID)
	assert.Equal(t, int64(7), *principal.MerchantID)
	assert.True(t, principal.IsActive)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	raw, err := issuer.Issue(&authz.Principal{ID: 1, Role: authz.RoleViewer, IsActive: true})
	require.NoError(t, err)

	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", -time.Minute)
	raw, err := issuer.Issue(&authz.Principal{ID: 1, Role: authz.RoleViewer, IsActive: true})
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnknownRoleClaim(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	raw, err := issuer.Issue(&authz.Principal{ID: 1, Role: authz.Role("pirate"), IsActive: true})
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, authz.ErrConfiguration)
}

func TestPrincipalConversionPreservesFields(t *testing.T) {
	mid := int64(3)
	user := User{ID: 9, Role: authz.RoleMerchant, MerchantID: &mid, IsActive: false}

	p := user.Principal()
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, authz.RoleMerchant, p.Role)
	assert.Equal(t, &mid, p.MerchantID)
	assert.False(t, p.IsActive)
}
