package identity

import (
	"testing"

	"gigbook/internal/apperrors"
	"gigbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestClaimWinsOverRole(t *testing.T) {
	r := NewResolver()
	p := Principal{UserID: 10, Role: models.RoleBooker, BookerID: ptr(42)}

	id, err := r.Resolve(p, models.RoleBooker, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestRoleFallback(t *testing.T) {
	r := NewResolver()
	// Token without a profile claim falls back to the user id
	p := Principal{UserID: 10, Role: models.RoleBooker}

	id, err := r.Resolve(p, models.RoleBooker, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
}

func TestRoleFallbackRequiresMatchingRole(t *testing.T) {
	r := NewResolver()
	p := Principal{UserID: 10, Role: models.RoleArtist}

	_, err := r.Resolve(p, models.RoleBooker, 0)
	assert.ErrorIs(t, err, apperrors.ErrIdentityMissing)
}

func TestStrictResolverIgnoresExplicit(t *testing.T) {
	r := NewResolver()
	p := Principal{UserID: 10, Role: models.RoleAdmin}

	// Strict paths never trust a request-supplied id
	_, err := r.Resolve(p, models.RoleBooker, 99)
	assert.ErrorIs(t, err, apperrors.ErrIdentityMissing)
}

func TestLenientResolverAcceptsExplicit(t *testing.T) {
	r := NewLenientResolver()
	p := Principal{UserID: 10, Role: models.RoleAdmin}

	id, err := r.Resolve(p, models.RoleBooker, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
}

func TestLenientResolverPrefersClaim(t *testing.T) {
	r := NewLenientResolver()
	p := Principal{UserID: 10, Role: models.RoleArtist, ArtistID: ptr(7)}

	id, err := r.Resolve(p, models.RoleArtist, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestScopedID(t *testing.T) {
	p := Principal{UserID: 10, Role: models.RoleBooker, BookerID: ptr(42), ArtistID: ptr(7)}

	require.NotNil(t, p.ScopedID(models.RoleBooker))
	assert.Equal(t, int64(42), *p.ScopedID(models.RoleBooker))
	require.NotNil(t, p.ScopedID(models.RoleArtist))
	assert.Equal(t, int64(7), *p.ScopedID(models.RoleArtist))
	assert.Nil(t, p.ScopedID(models.RoleAdmin))
}
