// Package identity resolves the role-scoped acting identity (booker id or
// artist id) for an authenticated principal. Resolution tolerates stale or
// partial tokens by trying an ordered list of sources; it is not a security
// boundary on its own — ownership must still be validated against the stored
// record on sensitive paths.
package identity

import "gigbook/internal/models"

// Principal is the authenticated caller as supplied by the auth provider.
type Principal struct {
	UserID   int64
	Role     models.Role
	BookerID *int64
	ArtistID *int64
}

// ActsAs reports whether the principal's primary role matches role.
func (p Principal) ActsAs(role models.Role) bool {
	return p.Role == role
}

// ScopedID returns the role-scoped profile id carried in the principal's
// claims, if any.
func (p Principal) ScopedID(role models.Role) *int64 {
	switch role {
	case models.RoleBooker:
		return p.BookerID
	case models.RoleArtist:
		return p.ArtistID
	}
	return nil
}
