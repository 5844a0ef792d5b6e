package service

import (
	"context"
	"fmt"

	"gigbook/internal/apperrors"
	"gigbook/internal/identity"
	"gigbook/internal/models"
)

// PaymentMethodService maintains the single-default-per-owner invariant over
// an owner's saved payment methods.
type PaymentMethodService struct {
	methods  PaymentMethodStore
	resolver *identity.Resolver
}

func NewPaymentMethodService(methods PaymentMethodStore) *PaymentMethodService {
	return &PaymentMethodService{methods: methods, resolver: identity.NewResolver()}
}

// owner derives the acting (id, type) method owner for the principal.
func (s *PaymentMethodService) owner(p identity.Principal) (int64, models.OwnerType, error) {
	switch p.Role {
	case models.RoleBooker:
		id, err := s.resolver.Resolve(p, models.RoleBooker, 0)
		return id, models.OwnerBooker, err
	case models.RoleArtist:
		id, err := s.resolver.Resolve(p, models.RoleArtist, 0)
		return id, models.OwnerArtist, err
	}
	return 0, "", fmt.Errorf("role %s cannot own payment methods: %w", p.Role, apperrors.ErrForbidden)
}

func (s *PaymentMethodService) Create(ctx context.Context, p identity.Principal, req *models.CreatePaymentMethodRequest) (*models.PaymentMethod, error) {
	ownerID, ownerType, err := s.owner(p)
	if err != nil {
		return nil, err
	}

	m := &models.PaymentMethod{
		OwnerID:   ownerID,
		OwnerType: ownerType,
		Type:      req.Type,
		Details:   req.Details,
		IsDefault: req.IsDefault,
	}

	if err := s.methods.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}

	return m, nil
}

func (s *PaymentMethodService) List(ctx context.Context, p identity.Principal) ([]models.PaymentMethod, error) {
	ownerID, ownerType, err := s.owner(p)
	if err != nil {
		return nil, err
	}

	methods, err := s.methods.ListByOwner(ctx, ownerID, ownerType)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}

	return methods, nil
}

// get loads a method and verifies it belongs to the acting owner.
func (s *PaymentMethodService) get(ctx context.Context, p identity.Principal, id int64) (*models.PaymentMethod, error) {
	ownerID, ownerType, err := s.owner(p)
	if err != nil {
		return nil, err
	}

	m, err := s.methods.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("payment method %d: %w", id, apperrors.ErrNotFound)
	}
	if m.OwnerID != ownerID || m.OwnerType != ownerType {
		return nil, fmt.Errorf("payment method belongs to another owner: %w", apperrors.ErrForbidden)
	}

	return m, nil
}

func (s *PaymentMethodService) Update(ctx context.Context, p identity.Principal, id int64, req *models.UpdatePaymentMethodRequest) (*models.PaymentMethod, error) {
	m, err := s.get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		m.Type = *req.Type
	}
	if req.Details != nil {
		m.Details = *req.Details
	}
	if req.IsDefault != nil {
		m.IsDefault = *req.IsDefault
	}

	if err := s.methods.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}

	return m, nil
}

func (s *PaymentMethodService) SetDefault(ctx context.Context, p identity.Principal, id int64) (*models.PaymentMethod, error) {
	m, err := s.get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := s.methods.SetDefault(ctx, m.ID, m.OwnerID, m.OwnerType); err != nil {
		return nil, fmt.Errorf("failed to set default payment method: %w", err)
	}

	m.IsDefault = true
	return m, nil
}

func (s *PaymentMethodService) Delete(ctx context.Context, p identity.Principal, id int64) error {
	m, err := s.get(ctx, p, id)
	if err != nil {
		return err
	}

	if err := s.methods.Delete(ctx, m); err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	return nil
}
