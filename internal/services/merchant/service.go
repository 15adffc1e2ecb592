// Package merchant handles issuer registration. A merchant record is the
// prerequisite for coupon issuance; exactly one exists per authority
// address and registrations are never deleted.
package merchant

import (
	"context"
	"fmt"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/services/custody"
)

// MaxBusinessNameLength is counted in characters, not bytes.
const MaxBusinessNameLength = 100

type Service interface {
	Register(ctx context.Context, authority, businessName string) (*models.Merchant, error)
	Get(ctx context.Context, authority string) (*models.Merchant, error)
}

type service struct {
	store  repositories.Store
	keeper *custody.Keeper
}

func NewService(store repositories.Store, keeper *custody.Keeper) Service {
	if store == nil {
		panic("store is required")
	}
	if keeper == nil {
		panic("keeper is required")
	}
	return &service{store: store, keeper: keeper}
}

func (s *service) Register(ctx context.Context, authority, businessName string) (*models.Merchant, error) {
	if businessName == "" {
		return nil, ErrBusinessNameRequired
	}
	if len([]rune(businessName)) > MaxBusinessNameLength {
		return nil, ErrBusinessNameTooLong
	}

	derivation, err := s.keeper.Derive(custody.LabelMerchant, authority)
	if err != nil {
		return nil, fmt.Errorf("failed to derive merchant record: %w", err)
	}

	var merchant *models.Merchant
	err = s.store.ExecuteInTransaction(func(st repositories.Store) error {
		if _, err := st.Merchants().GetByAuthority(authority); err == nil {
			return ErrMerchantExists
		} else if err != repositories.ErrMerchantNotFound {
			return err
		}

		merchant = &models.Merchant{
			Authority:           authority,
			BusinessName:        businessName,
			TotalCouponsCreated: 0,
			DerivationSalt:      derivation.Bump,
		}
		return st.Merchants().Create(merchant)
	})
	if err != nil {
		return nil, err
	}
	return merchant, nil
}

func (s *service) Get(ctx context.Context, authority string) (*models.Merchant, error) {
	merchant, err := s.store.Merchants().GetByAuthority(authority)
	if err != nil {
		if err == repositories.ErrMerchantNotFound {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return merchant, nil
}
