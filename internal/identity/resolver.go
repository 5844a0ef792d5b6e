package identity

import (
	"fmt"

	"gigbook/internal/apperrors"
	"gigbook/internal/models"
)

// Strategy is one identity source. It returns nil when it cannot resolve an
// id for the requested role.
type Strategy interface {
	Resolve(p Principal, role models.Role, explicit int64) *int64
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(p Principal, role models.Role, explicit int64) *int64

func (f StrategyFunc) Resolve(p Principal, role models.Role, explicit int64) *int64 {
	return f(p, role, explicit)
}

// ClaimStrategy reads the role-scoped id embedded in the token claims.
func ClaimStrategy() Strategy {
	return StrategyFunc(func(p Principal, role models.Role, _ int64) *int64 {
		return p.ScopedID(role)
	})
}

// RoleStrategy falls back to the principal's own id when its primary role
// matches the requested role.
func RoleStrategy() Strategy {
	return StrategyFunc(func(p Principal, role models.Role, _ int64) *int64 {
		if p.ActsAs(role) {
			id := p.UserID
			return &id
		}
		return nil
	})
}

// ExplicitStrategy accepts an id supplied in the request payload or query.
// Acceptable only on non-sensitive read paths.
func ExplicitStrategy() Strategy {
	return StrategyFunc(func(_ Principal, _ models.Role, explicit int64) *int64 {
		if explicit > 0 {
			return &explicit
		}
		return nil
	})
}

// Resolver tries its strategies in order; the first match wins.
type Resolver struct {
	strategies []Strategy
}

// NewResolver returns a resolver for sensitive paths: token claim first,
// then the principal's own id.
func NewResolver() *Resolver {
	return &Resolver{strategies: []Strategy{ClaimStrategy(), RoleStrategy()}}
}

// NewLenientResolver additionally accepts an explicit request-supplied id as
// a last resort, for non-sensitive read paths.
func NewLenientResolver() *Resolver {
	return &Resolver{strategies: []Strategy{ClaimStrategy(), RoleStrategy(), ExplicitStrategy()}}
}

// Resolve derives the acting id for role, or ErrIdentityMissing when no
// strategy matches.
func (r *Resolver) Resolve(p Principal, role models.Role, explicit int64) (int64, error) {
	for _, s := range r.strategies {
		if id := s.Resolve(p, role, explicit); id != nil {
			return *id, nil
		}
	}
	return 0, fmt.Errorf("no acting %s identity: %w", role, apperrors.ErrIdentityMissing)
}
