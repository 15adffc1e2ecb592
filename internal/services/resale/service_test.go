package resale

import (
	"context"
	"testing"
	"time"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/services/coupon"
	"couponvault/internal/services/custody"
	"couponvault/internal/services/merchant"
	"couponvault/internal/services/nft"
	"couponvault/internal/services/token"
	"couponvault/internal/services/wallet"
	"couponvault/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	merchantAddr = "aa11111111111111111111111111111111111111111111111111111111111111"
	sellerAddr   = "bb22222222222222222222222222222222222222222222222222222222222222"
	buyerAddr    = "cc33333333333333333333333333333333333333333333333333333333333333"
	platformAddr = "dd44444444444444444444444444444444444444444444444444444444444444"
)

type fixture struct {
	svc     Service
	st      repositories.Store
	keeper  *custody.Keeper
	ledger  token.Service
	wallets wallet.Service
	assetID string
	ctx     context.Context
}

// newFixture issues a free coupon and places it in the seller's hands.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := testutil.NewStore(t)
	cacheService := testutil.NewCache(t)
	keeper := custody.NewKeeper("couponvault-test", "test-signing-key")
	ledger := token.NewLedger(keeper)
	wallets := wallet.NewService(st, cacheService, nil)
	issuer := nft.NewMetadataService()

	ctx := context.Background()
	merchants := merchant.NewService(st, keeper)
	_, err := merchants.Register(ctx, merchantAddr, "Corner Bakery")
	require.NoError(t, err)

	for _, addr := range []string{merchantAddr, sellerAddr, buyerAddr, platformAddr} {
		_, err := wallets.CreateWallet(ctx, addr)
		require.NoError(t, err)
	}

	coupons := coupon.NewService(st, cacheService, keeper, ledger, wallets, issuer, platformAddr)
	detail, err := coupons.Create(ctx, merchantAddr, coupon.CreateCouponRequest{
		Title:              "Half Price Coffee",
		DiscountPercentage: 50,
		ExpiresAt:          time.Now().Add(24 * time.Hour),
		Category:           models.CategoryFood,
		MaxRedemptions:     1,
		Price:              0,
	})
	require.NoError(t, err)
	require.NoError(t, coupons.Claim(ctx, sellerAddr, detail.Coupon.AssetID))

	return &fixture{
		svc:     NewService(st, cacheService, keeper, ledger, wallets, platformAddr, "test-approval-secret"),
		st:      st,
		keeper:  keeper,
		ledger:  ledger,
		wallets: wallets,
		assetID: detail.Coupon.AssetID,
		ctx:     ctx,
	}
}

func (f *fixture) fund(t *testing.T, addr string, amount uint64) {
	t.Helper()
	require.NoError(t, f.wallets.Credit(f.st, addr, amount))
}

func (f *fixture) balance(t *testing.T, addr string) uint64 {
	t.Helper()
	balance, err := f.wallets.GetBalance(f.ctx, addr)
	require.NoError(t, err)
	return balance
}

func (f *fixture) holding(t *testing.T, addr string) uint64 {
	t.Helper()
	balance, err := f.ledger.Balance(f.st, f.assetID, addr)
	require.NoError(t, err)
	return balance
}

func TestListEscrowsCoupon(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.List(f.ctx, sellerAddr, f.assetID, 2000))

	assert.Equal(t, uint64(0), f.holding(t, sellerAddr))

	escrow, err := f.keeper.Derive(custody.LabelResaleEscrow, f.assetID, sellerAddr)
	require.NoError(t, err)
	escrowed, err := f.ledger.Balance(f.st, f.assetID, escrow.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), escrowed)

	// The unit is escrowed, so the seller cannot list it again.
	assert.ErrorIs(t, f.svc.List(f.ctx, sellerAddr, f.assetID, 2000), ErrNotHolder)
}

func TestListValidation(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.svc.List(f.ctx, sellerAddr, f.assetID, 0), ErrInvalidPrice)
	assert.ErrorIs(t, f.svc.List(f.ctx, buyerAddr, f.assetID, 1000), ErrNotHolder)
	assert.ErrorIs(t, f.svc.List(f.ctx, sellerAddr, "unknown-asset", 1000), ErrCouponNotFound)
}

func TestPurchaseFromResale(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.List(f.ctx, sellerAddr, f.assetID, 2000))
	f.fund(t, buyerAddr, 2500)

	require.NoError(t, f.svc.PurchaseFromResale(f.ctx, buyerAddr, sellerAddr, f.assetID, 2000))

	assert.Equal(t, uint64(500), f.balance(t, buyerAddr))
	assert.Equal(t, uint64(1950), f.balance(t, sellerAddr))
	assert.Equal(t, uint64(50), f.balance(t, platformAddr))
	assert.Equal(t, uint64(1), f.holding(t, buyerAddr))

	// Escrow is empty, so the same listing cannot be bought twice.
	assert.ErrorIs(t, f.svc.PurchaseFromResale(f.ctx, buyerAddr, sellerAddr, f.assetID, 2000), ErrNotListed)
}

func TestPurchaseFromResaleNotListed(t *testing.T) {
	f := newFixture(t)
	f.fund(t, buyerAddr, 2500)

	assert.ErrorIs(t, f.svc.PurchaseFromResale(f.ctx, buyerAddr, sellerAddr, f.assetID, 2000), ErrNotListed)
}

func TestPurchaseFromResaleRollsBackOnInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.List(f.ctx, sellerAddr, f.assetID, 2000))
	f.fund(t, buyerAddr, 100)

	err := f.svc.PurchaseFromResale(f.ctx, buyerAddr, sellerAddr, f.assetID, 2000)
	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	assert.Equal(t, uint64(100), f.balance(t, buyerAddr))
	assert.Equal(t, uint64(0), f.balance(t, sellerAddr))
	assert.Equal(t, uint64(0), f.holding(t, buyerAddr))
}

func TestTransferP2P(t *testing.T) {
	f := newFixture(t)
	f.fund(t, buyerAddr, 1500)

	approval, err := f.svc.ApproveTransfer(f.ctx, sellerAddr, buyerAddr, f.assetID, 1000)
	require.NoError(t, err)

	require.NoError(t, f.svc.TransferP2P(f.ctx, buyerAddr, f.assetID, approval, 1000))

	assert.Equal(t, uint64(500), f.balance(t, buyerAddr))
	assert.Equal(t, uint64(975), f.balance(t, sellerAddr))
	assert.Equal(t, uint64(25), f.balance(t, platformAddr))
	assert.Equal(t, uint64(1), f.holding(t, buyerAddr))
	assert.Equal(t, uint64(0), f.holding(t, sellerAddr))
}

func TestTransferP2PRejectsMismatchedTerms(t *testing.T) {
	f := newFixture(t)
	f.fund(t, buyerAddr, 5000)

	approval, err := f.svc.ApproveTransfer(f.ctx, sellerAddr, buyerAddr, f.assetID, 1000)
	require.NoError(t, err)

	// Buyer asserts a different price than the seller approved.
	err = f.svc.TransferP2P(f.ctx, buyerAddr, f.assetID, approval, 500)
	assert.ErrorIs(t, err, ErrInvalidApproval)

	// A different buyer replays the approval.
	err = f.svc.TransferP2P(f.ctx, platformAddr, f.assetID, approval, 1000)
	assert.ErrorIs(t, err, ErrInvalidApproval)

	// Garbage approval.
	err = f.svc.TransferP2P(f.ctx, buyerAddr, f.assetID, "not-a-token", 1000)
	assert.ErrorIs(t, err, ErrInvalidApproval)

	assert.Equal(t, uint64(1), f.holding(t, sellerAddr))
}

func TestApproveTransferRequiresHolding(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ApproveTransfer(f.ctx, buyerAddr, sellerAddr, f.assetID, 1000)
	assert.ErrorIs(t, err, ErrNotHolder)

	_, err = f.svc.ApproveTransfer(f.ctx, sellerAddr, buyerAddr, f.assetID, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestTransferP2PAfterSellerDisposed(t *testing.T) {
	f := newFixture(t)
	f.fund(t, buyerAddr, 2000)

	approval, err := f.svc.ApproveTransfer(f.ctx, sellerAddr, buyerAddr, f.assetID, 1000)
	require.NoError(t, err)

	// Seller escrows the coupon before the buyer settles.
	require.NoError(t, f.svc.List(f.ctx, sellerAddr, f.assetID, 3000))

	err = f.svc.TransferP2P(f.ctx, buyerAddr, f.assetID, approval, 1000)
	assert.ErrorIs(t, err, ErrNotHolder)
	assert.Equal(t, uint64(2000), f.balance(t, buyerAddr))
}
