// Package resale implements the secondary market: escrow-mediated listings
// that anyone can buy out, and direct transfers co-signed by the seller.
// Both paths apply the platform fee split and settle atomically.
//
// Prices on the settlement path are asserted by the buyer. The listing ask
// is advisory; the seller's protection on the direct path is the approval
// co-signature over the exact terms.
package resale

import (
	"context"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/repositories/cache"
	"couponvault/internal/services/custody"
	"couponvault/internal/services/fees"
	"couponvault/internal/services/token"
	"couponvault/internal/services/wallet"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, sellerAddress, assetID string, askPrice uint64) error
	PurchaseFromResale(ctx context.Context, buyerAddress, sellerAddress, assetID string, price uint64) error
	ApproveTransfer(ctx context.Context, sellerAddress, buyerAddress, assetID string, price uint64) (string, error)
	TransferP2P(ctx context.Context, buyerAddress, assetID, approval string, price uint64) error
}

type service struct {
	store           repositories.Store
	cache           *cache.CacheService
	keeper          *custody.Keeper
	ledger          token.Service
	wallets         wallet.Service
	platformAddress string
	approvalSecret  []byte
}

func NewService(
	store repositories.Store,
	cacheService *cache.CacheService,
	keeper *custody.Keeper,
	ledger token.Service,
	wallets wallet.Service,
	platformAddress string,
	approvalSecret string,
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
	if platformAddress == "" {
		panic("platform address is required")
	}
	if approvalSecret == "" {
		panic("approval secret is required")
	}
	return &service{
		store:           store,
		cache:           cacheService,
		keeper:          keeper,
		ledger:          ledger,
		wallets:         wallets,
		platformAddress: platformAddress,
		approvalSecret:  []byte(approvalSecret),
	}
}

// List moves the seller's coupon into a resale escrow derived from the
// asset and seller. While escrowed the seller cannot redeem or transfer it.
func (s *service) List(ctx context.Context, sellerAddress, assetID string, askPrice uint64) error {
	if askPrice == 0 {
		return ErrInvalidPrice
	}

	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		if _, err := st.Coupons().GetByAssetID(assetID); err != nil {
			if err == repositories.ErrCouponNotFound {
				return ErrCouponNotFound
			}
			return err
		}

		balance, err := s.ledger.Balance(st, assetID, sellerAddress)
		if err != nil {
			return err
		}
		if balance == 0 {
			return ErrNotHolder
		}

		escrow, err := s.keeper.Derive(custody.LabelResaleEscrow, assetID, sellerAddress)
		if err != nil {
			return err
		}
		if escrowed, err := s.ledger.Balance(st, assetID, escrow.Address); err != nil {
			return err
		} else if escrowed > 0 {
			return ErrAlreadyListed
		}
		if _, err := s.ledger.CreateAccount(st, assetID, escrow.Address, escrow.Address,
			models.AccountKindResaleEscrow, escrow.Bump); err != nil && err != token.ErrAccountExists {
			return err
		}

		if err := s.ledger.Transfer(st, assetID, sellerAddress, escrow.Address, 1,
			custody.Authority{Address: sellerAddress}); err != nil {
			return err
		}

		return st.Transactions().Create(&models.Transaction{
			Reference:     uuid.NewString(),
			Type:          models.TransactionTypeList,
			SenderAddress: sellerAddress,
			AssetID:       assetID,
			Amount:        askPrice,
			Description:   "Listed coupon for resale",
		})
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCoupon(ctx, assetID)
	return nil
}

// PurchaseFromResale buys an escrowed coupon at the buyer-asserted price:
// seller receives the price net of fee, platform receives the fee, escrow
// releases the coupon to the buyer.
func (s *service) PurchaseFromResale(ctx context.Context, buyerAddress, sellerAddress, assetID string, price uint64) error {
	if price == 0 {
		return ErrInvalidPrice
	}

	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		escrow, err := s.keeper.Derive(custody.LabelResaleEscrow, assetID, sellerAddress)
		if err != nil {
			return err
		}
		escrowed, err := s.ledger.Balance(st, assetID, escrow.Address)
		if err != nil {
			return err
		}
		if escrowed != 1 {
			return ErrNotListed
		}

		counterparty, fee, err := fees.Split(price)
		if err != nil {
			return err
		}
		if err := s.wallets.Pay(st, buyerAddress, sellerAddress, counterparty); err != nil {
			return err
		}
		if fee > 0 {
			if err := s.wallets.Pay(st, buyerAddress, s.platformAddress, fee); err != nil {
				return err
			}
		}

		if err := s.ledger.Transfer(st, assetID, escrow.Address, buyerAddress, 1,
			s.keeper.Authority(escrow.Address)); err != nil {
			return err
		}

		return st.Transactions().Create(&models.Transaction{
			Reference:       uuid.NewString(),
			Type:            models.TransactionTypeResalePurchase,
			SenderAddress:   buyerAddress,
			ReceiverAddress: sellerAddress,
			AssetID:         assetID,
			Amount:          counterparty,
			Fee:             fee,
			Description:     "Purchased coupon from resale",
		})
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCoupon(ctx, assetID)
	return nil
}

// ApproveTransfer issues the seller's co-signature for a direct transfer.
// The approval binds buyer, asset and price and expires after ApprovalTTL.
func (s *service) ApproveTransfer(ctx context.Context, sellerAddress, buyerAddress, assetID string, price uint64) (string, error) {
	if price == 0 {
		return "", ErrInvalidPrice
	}

	balance, err := s.ledger.Balance(s.store, assetID, sellerAddress)
	if err != nil {
		return "", err
	}
	if balance == 0 {
		return "", ErrNotHolder
	}

	return s.signApproval(&TransferApproval{
		Seller:  sellerAddress,
		Buyer:   buyerAddress,
		AssetID: assetID,
		Price:   price,
	})
}

// TransferP2P settles a direct sale between two holders. The buyer submits
// the seller's approval; the settlement only proceeds when the approval's
// terms match the buyer's assertion exactly.
func (s *service) TransferP2P(ctx context.Context, buyerAddress, assetID, approval string, price uint64) error {
	if price == 0 {
		return ErrInvalidPrice
	}

	terms, err := s.parseApproval(approval)
	if err != nil {
		return err
	}
	if terms.Buyer != buyerAddress || terms.AssetID != assetID || terms.Price != price {
		return ErrInvalidApproval
	}
	if terms.Seller == buyerAddress {
		return ErrInvalidApproval
	}

	err = s.store.ExecuteInTransaction(func(st repositories.Store) error {
		balance, err := s.ledger.Balance(st, assetID, terms.Seller)
		if err != nil {
			return err
		}
		if balance == 0 {
			return ErrNotHolder
		}

		counterparty, fee, err := fees.Split(price)
		if err != nil {
			return err
		}
		if err := s.wallets.Pay(st, buyerAddress, terms.Seller, counterparty); err != nil {
			return err
		}
		if fee > 0 {
			if err := s.wallets.Pay(st, buyerAddress, s.platformAddress, fee); err != nil {
				return err
			}
		}

		if err := s.ledger.Transfer(st, assetID, terms.Seller, buyerAddress, 1,
			custody.Authority{Address: terms.Seller}); err != nil {
			return err
		}

		return st.Transactions().Create(&models.Transaction{
			Reference:       uuid.NewString(),
			Type:            models.TransactionTypeP2PTransfer,
			SenderAddress:   buyerAddress,
			ReceiverAddress: terms.Seller,
			AssetID:         assetID,
			Amount:          counterparty,
			Fee:             fee,
			Description:     "Direct coupon transfer",
			Metadata: models.NewJSON(map[string]interface{}{
				"approved_at": terms.IssuedAt.Unix(),
			}),
		})
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCoupon(ctx, assetID)
	return nil
}
