// Package coupon implements the voucher lifecycle: issuance into program
// custody, first-hand distribution by claim or purchase, and redemption.
// Every lifecycle operation commits as one atomic unit; a failed leg rolls
// back everything, including the fee split.
package coupon

import (
	"context"
	"fmt"
	"time"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/repositories/cache"
	"couponvault/internal/services/custody"
	"couponvault/internal/services/fees"
	"couponvault/internal/services/nft"
	"couponvault/internal/services/token"
	"couponvault/internal/services/wallet"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, authority string, req CreateCouponRequest) (*CouponDetail, error)
	Claim(ctx context.Context, userAddress, assetID string) error
	Purchase(ctx context.Context, buyerAddress, assetID string) error
	Redeem(ctx context.Context, userAddress, assetID string) (*RedemptionResult, error)
	SetActive(ctx context.Context, authority, assetID string, active bool) error
	Get(ctx context.Context, assetID string) (*CouponDetail, error)
	ListActive(ctx context.Context, limit, offset int) ([]models.CouponRecord, error)
	ListByMerchant(ctx context.Context, authority string) ([]models.CouponRecord, error)
	ListRedemptions(ctx context.Context, assetID string) ([]models.Redemption, error)
}

type service struct {
	store           repositories.Store
	cache           *cache.CacheService
	keeper          *custody.Keeper
	ledger          token.Service
	wallets         wallet.Service
	issuer          nft.Issuer
	platformAddress string
}

func NewService(
	store repositories.Store,
	cacheService *cache.CacheService,
	keeper *custody.Keeper,
	ledger token.Service,
	wallets wallet.Service,
	issuer nft.Issuer,
	platformAddress string,
) Service {
	if store == nil {
		panic("store is required")
	}
	if cacheService == nil {
		panic("cache is required")
	}
	if keeper == nil {
		panic("keeper is required")
	}
	if ledger == nil {
		panic("ledger is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if issuer == nil {
		panic("issuer is required")
	}
	if platformAddress == "" {
		panic("platform address is required")
	}
	return &service{
		store:           store,
		cache:           cacheService,
		keeper:          keeper,
		ledger:          ledger,
		wallets:         wallets,
		issuer:          issuer,
		platformAddress: platformAddress,
	}
}

func (s *service) Create(ctx context.Context, authority string, req CreateCouponRequest) (*CouponDetail, error) {
	if req.DiscountPercentage < 1 || req.DiscountPercentage > 100 {
		return nil, ErrInvalidDiscountPercentage
	}
	if !req.ExpiresAt.After(time.Now()) {
		return nil, ErrInvalidExpiry
	}
	if req.MaxRedemptions < 1 {
		return nil, ErrInvalidRedemptionCount
	}
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	var detail *CouponDetail
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		mer, err := st.Merchants().GetByAuthority(authority)
		if err != nil {
			if err == repositories.ErrMerchantNotFound {
				return ErrUnauthorizedMerchant
			}
			return err
		}

		asset, err := s.issuer.Issue(ctx, st, nft.Attributes{
			Title:       req.Title,
			Description: req.Description,
			MetadataURI: req.MetadataURI,
			Creator:     authority,
		})
		if err != nil {
			return fmt.Errorf("issuance failed: %w", err)
		}

		escrow, err := s.keeper.Derive(custody.LabelIssuanceEscrow, authority, asset.ID)
		if err != nil {
			return err
		}
		if _, err := s.ledger.CreateAccount(st, asset.ID, escrow.Address, escrow.Address,
			models.AccountKindIssuanceEscrow, escrow.Bump); err != nil {
			return err
		}
		if err := s.ledger.Mint(st, asset.ID, escrow.Address, 1); err != nil {
			return err
		}

		record, err := s.keeper.Derive(custody.LabelCoupon, asset.ID)
		if err != nil {
			return err
		}
		coupon := &models.CouponRecord{
			AssetID:              asset.ID,
			MerchantAuthority:    authority,
			DiscountPercentage:   req.DiscountPercentage,
			ExpiresAt:            req.ExpiresAt,
			Category:             req.Category,
			RedemptionsRemaining: req.MaxRedemptions,
			MaxRedemptions:       req.MaxRedemptions,
			IsActive:             true,
			Price:                req.Price,
			DerivationSalt:       record.Bump,
		}
		if err := st.Coupons().Create(coupon); err != nil {
			return err
		}

		mer.TotalCouponsCreated++
		if err := st.Merchants().Update(mer); err != nil {
			return err
		}

		// Re-read the asset so the returned detail carries the minted supply.
		asset, err = st.Assets().GetByID(asset.ID)
		if err != nil {
			return err
		}

		if err := st.Transactions().Create(&models.Transaction{
			Reference:     uuid.NewString(),
			Type:          models.TransactionTypeIssue,
			SenderAddress: authority,
			AssetID:       asset.ID,
			Description:   fmt.Sprintf("Issued coupon %q", asset.Name),
		}); err != nil {
			return err
		}

		detail = &CouponDetail{Coupon: coupon, Asset: asset}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Claim hands the coupon from issuance custody to a user for free. Only
// zero-priced coupons are claimable; the escrow holds a single unit, so at
// most one claim can ever succeed.
func (s *service) Claim(ctx context.Context, userAddress, assetID string) error {
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		record, err := s.lockRecord(st, assetID)
		if err != nil {
			return err
		}
		if err := s.checkDistributable(record); err != nil {
			return err
		}
		if record.Price != 0 {
			return ErrNotFreeCoupon
		}

		escrow, err := s.keeper.Derive(custody.LabelIssuanceEscrow, record.MerchantAuthority, assetID)
		if err != nil {
			return err
		}
		if err := s.ledger.Transfer(st, assetID, escrow.Address, userAddress, 1,
			s.keeper.Authority(escrow.Address)); err != nil {
			return err
		}

		record.RedemptionsRemaining--
		if err := st.Coupons().Update(record); err != nil {
			return err
		}

		return st.Transactions().Create(&models.Transaction{
			Reference:       uuid.NewString(),
			Type:            models.TransactionTypeClaim,
			SenderAddress:   record.MerchantAuthority,
			ReceiverAddress: userAddress,
			AssetID:         assetID,
			Description:     "Claimed free coupon",
		})
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCoupon(ctx, assetID)
	return nil
}

// Purchase settles the three legs of a paid first-hand sale atomically:
// buyer pays the merchant the price net of fee, buyer pays the platform the
// fee, escrow releases the coupon to the buyer.
func (s *service) Purchase(ctx context.Context, buyerAddress, assetID string) error {
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		record, err := s.lockRecord(st, assetID)
		if err != nil {
			return err
		}
		if err := s.checkDistributable(record); err != nil {
			return err
		}
		if record.Price == 0 {
			return ErrNotPaidCoupon
		}

		counterparty, fee, err := fees.Split(record.Price)
		if err != nil {
			return err
		}
		if err := s.wallets.Pay(st, buyerAddress, record.MerchantAuthority, counterparty); err != nil {
			return err
		}
		if fee > 0 {
			if err := s.wallets.Pay(st, buyerAddress, s.platformAddress, fee); err != nil {
				return err
			}
		}

		escrow, err := s.keeper.Derive(custody.LabelIssuanceEscrow, record.MerchantAuthority, assetID)
		if err != nil {
			return err
		}
		if err := s.ledger.Transfer(st, assetID, escrow.Address, buyerAddress, 1,
			s.keeper.Authority(escrow.Address)); err != nil {
			return err
		}

		record.RedemptionsRemaining--
		if err := st.Coupons().Update(record); err != nil {
			return err
		}

		return st.Transactions().Create(&models.Transaction{
			Reference:       uuid.NewString(),
			Type:            models.TransactionTypePurchase,
			SenderAddress:   buyerAddress,
			ReceiverAddress: record.MerchantAuthority,
			AssetID:         assetID,
			Amount:          counterparty,
			Fee:             fee,
			Description:     "Purchased coupon",
		})
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCoupon(ctx, assetID)
	return nil
}

// Redeem consumes one use of a coupon the caller holds. Single-use coupons
// burn on redemption; multi-use coupons burn when the last use is consumed.
func (s *service) Redeem(ctx context.Context, userAddress, assetID string) (*RedemptionResult, error) {
	var result *RedemptionResult
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		record, err := s.lockRecord(st, assetID)
		if err != nil {
			return err
		}
		if !record.IsActive {
			return ErrCouponInactive
		}
		if !record.ExpiresAt.After(time.Now()) {
			return ErrCouponExpired
		}
		balance, err := s.ledger.Balance(st, assetID, userAddress)
		if err != nil {
			return err
		}
		if record.RedemptionsRemaining == 0 {
			// A single-use coupon spends its counter at release; the
			// un-burned unit itself carries that one redemption.
			if record.MaxRedemptions != 1 || balance == 0 {
				return ErrCouponFullyRedeemed
			}
		}
		if balance == 0 {
			return ErrNotCouponHolder
		}

		if record.RedemptionsRemaining > 0 {
			record.RedemptionsRemaining--
		}
		burn := record.MaxRedemptions == 1 || record.RedemptionsRemaining == 0
		if burn {
			auth := custody.Authority{Address: userAddress}
			if err := s.ledger.Burn(st, assetID, userAddress, 1, auth); err != nil {
				return err
			}
		}
		if err := st.Coupons().Update(record); err != nil {
			return err
		}

		now := time.Now()
		if err := st.Redemptions().Create(&models.Redemption{
			AssetID:              assetID,
			MerchantAuthority:    record.MerchantAuthority,
			UserAddress:          userAddress,
			RedemptionsRemaining: record.RedemptionsRemaining,
			RedeemedAt:           now,
		}); err != nil {
			return err
		}

		if err := st.Transactions().Create(&models.Transaction{
			Reference:       uuid.NewString(),
			Type:            models.TransactionTypeRedeem,
			SenderAddress:   userAddress,
			ReceiverAddress: record.MerchantAuthority,
			AssetID:         assetID,
			Description:     fmt.Sprintf("Redeemed coupon, %d uses remaining", record.RedemptionsRemaining),
		}); err != nil {
			return err
		}

		result = &RedemptionResult{
			AssetID:              assetID,
			RedemptionsRemaining: record.RedemptionsRemaining,
			Burned:               burn,
			RedeemedAt:           now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCoupon(ctx, assetID)
	return result, nil
}

func (s *service) SetActive(ctx context.Context, authority, assetID string, active bool) error {
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		record, err := s.lockRecord(st, assetID)
		if err != nil {
			return err
		}
		if record.MerchantAuthority != authority {
			return ErrUnauthorizedMerchant
		}
		record.IsActive = active
		return st.Coupons().Update(record)
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCoupon(ctx, assetID)
	return nil
}

func (s *service) Get(ctx context.Context, assetID string) (*CouponDetail, error) {
	record, err := s.cache.GetCoupon(ctx, assetID)
	if err != nil {
		record, err = s.store.Coupons().GetByAssetID(assetID)
		if err != nil {
			if err == repositories.ErrCouponNotFound {
				return nil, ErrCouponNotFound
			}
			return nil, fmt.Errorf("failed to get coupon: %w", err)
		}
		s.cache.SetCoupon(ctx, record)
	}

	asset, err := s.store.Assets().GetByID(assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &CouponDetail{Coupon: record, Asset: asset}, nil
}

func (s *service) ListActive(ctx context.Context, limit, offset int) ([]models.CouponRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Coupons().ListActive(limit, offset)
}

func (s *service) ListByMerchant(ctx context.Context, authority string) ([]models.CouponRecord, error) {
	return s.store.Coupons().ListByMerchant(authority)
}

func (s *service) ListRedemptions(ctx context.Context, assetID string) ([]models.Redemption, error) {
	return s.store.Redemptions().ListByAsset(assetID)
}

func (s *service) lockRecord(st repositories.Store, assetID string) (*models.CouponRecord, error) {
	record, err := st.Coupons().GetByAssetIDForUpdate(assetID)
	if err != nil {
		if err == repositories.ErrCouponNotFound {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to lock coupon: %w", err)
	}
	return record, nil
}

// checkDistributable gates first-hand distribution (claim and purchase).
func (s *service) checkDistributable(record *models.CouponRecord) error {
	if !record.IsActive {
		return ErrCouponInactive
	}
	if !record.ExpiresAt.After(time.Now()) {
		return ErrCouponExpired
	}
	if record.RedemptionsRemaining == 0 {
		return ErrNoRedemptionsRemaining
	}
	return nil
}
