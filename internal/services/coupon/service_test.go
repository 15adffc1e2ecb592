package coupon

import (
	"context"
	"testing"
	"time"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
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
	userAddr     = "bb22222222222222222222222222222222222222222222222222222222222222"
	platformAddr = "cc33333333333333333333333333333333333333333333333333333333333333"
)

type fixture struct {
	svc     Service
	st      repositories.Store
	keeper  *custody.Keeper
	ledger  token.Service
	wallets wallet.Service
	ctx     context.Context
}

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

	for _, addr := range []string{merchantAddr, userAddr, platformAddr} {
		_, err := wallets.CreateWallet(ctx, addr)
		require.NoError(t, err)
	}

	return &fixture{
		svc:     NewService(st, cacheService, keeper, ledger, wallets, issuer, platformAddr),
		st:      st,
		keeper:  keeper,
		ledger:  ledger,
		wallets: wallets,
		ctx:     ctx,
	}
}

func (f *fixture) createCoupon(t *testing.T, price uint64, maxRedemptions uint8) *CouponDetail {
	t.Helper()
	detail, err := f.svc.Create(f.ctx, merchantAddr, CreateCouponRequest{
		Title:              "Half Price Coffee",
		Description:        "50% off any drink",
		DiscountPercentage: 50,
		ExpiresAt:          time.Now().Add(24 * time.Hour),
		Category:           models.CategoryFood,
		MaxRedemptions:     maxRedemptions,
		Price:              price,
	})
	require.NoError(t, err)
	return detail
}

func (f *fixture) escrowBalance(t *testing.T, assetID string) uint64 {
	t.Helper()
	escrow, err := f.keeper.Derive(custody.LabelIssuanceEscrow, merchantAddr, assetID)
	require.NoError(t, err)
	balance, err := f.ledger.Balance(f.st, assetID, escrow.Address)
	require.NoError(t, err)
	return balance
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

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	base := CreateCouponRequest{
		Title:              "Half Price Coffee",
		DiscountPercentage: 50,
		ExpiresAt:          time.Now().Add(time.Hour),
		Category:           models.CategoryFood,
		MaxRedemptions:     1,
	}

	req := base
	req.DiscountPercentage = 0
	_, err := f.svc.Create(f.ctx, merchantAddr, req)
	assert.ErrorIs(t, err, ErrInvalidDiscountPercentage)

	req = base
	req.DiscountPercentage = 101
	_, err = f.svc.Create(f.ctx, merchantAddr, req)
	assert.ErrorIs(t, err, ErrInvalidDiscountPercentage)

	req = base
	req.ExpiresAt = time.Now().Add(-time.Minute)
	_, err = f.svc.Create(f.ctx, merchantAddr, req)
	assert.ErrorIs(t, err, ErrInvalidExpiry)

	req = base
	req.MaxRedemptions = 0
	_, err = f.svc.Create(f.ctx, merchantAddr, req)
	assert.ErrorIs(t, err, ErrInvalidRedemptionCount)

	req = base
	req.Category = "groceries"
	_, err = f.svc.Create(f.ctx, merchantAddr, req)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = f.svc.Create(f.ctx, userAddr, base)
	assert.ErrorIs(t, err, ErrUnauthorizedMerchant)
}

func TestCreatePlacesCouponInCustody(t *testing.T) {
	f := newFixture(t)

	detail := f.createCoupon(t, 0, 1)
	assetID := detail.Coupon.AssetID

	assert.Equal(t, uint64(1), f.escrowBalance(t, assetID))
	assert.Equal(t, uint8(1), detail.Coupon.RedemptionsRemaining)
	assert.True(t, detail.Coupon.IsActive)
	assert.Equal(t, uint64(1), detail.Asset.Supply)

	m, err := f.st.Merchants().GetByAuthority(merchantAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.TotalCouponsCreated)

	journal, err := f.st.Transactions().ListByAddress(merchantAddr, 10, 0)
	require.NoError(t, err)
	require.Len(t, journal, 1)
	assert.Equal(t, models.TransactionTypeIssue, journal[0].Type)
	assert.Equal(t, assetID, journal[0].AssetID)
}

func TestClaimFreeCoupon(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 1)
	assetID := detail.Coupon.AssetID

	require.NoError(t, f.svc.Claim(f.ctx, userAddr, assetID))

	balance, err := f.ledger.Balance(f.st, assetID, userAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), balance)
	assert.Equal(t, uint64(0), f.escrowBalance(t, assetID))

	record, err := f.st.Coupons().GetByAssetID(assetID)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), record.RedemptionsRemaining)

	// The claim consumed the counter; a second claim fails cleanly.
	err = f.svc.Claim(f.ctx, "dd44444444444444444444444444444444444444444444444444444444444444", assetID)
	assert.ErrorIs(t, err, ErrNoRedemptionsRemaining)
}

func TestClaimDecrementsRemaining(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 3)

	require.NoError(t, f.svc.Claim(f.ctx, userAddr, detail.Coupon.AssetID))

	record, err := f.st.Coupons().GetByAssetID(detail.Coupon.AssetID)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), record.RedemptionsRemaining)
}

func TestClaimRejectsPaidCoupon(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 1000, 1)

	err := f.svc.Claim(f.ctx, userAddr, detail.Coupon.AssetID)
	assert.ErrorIs(t, err, ErrNotFreeCoupon)
}

func TestPurchaseSettlesAllLegs(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 1000, 1)
	assetID := detail.Coupon.AssetID
	f.fund(t, userAddr, 1500)

	require.NoError(t, f.svc.Purchase(f.ctx, userAddr, assetID))

	assert.Equal(t, uint64(500), f.balance(t, userAddr))
	assert.Equal(t, uint64(975), f.balance(t, merchantAddr))
	assert.Equal(t, uint64(25), f.balance(t, platformAddr))

	balance, _ := f.ledger.Balance(f.st, assetID, userAddr)
	assert.Equal(t, uint64(1), balance)
	assert.Equal(t, uint64(0), f.escrowBalance(t, assetID))

	record, err := f.st.Coupons().GetByAssetID(assetID)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), record.RedemptionsRemaining)
}

func TestPurchaseDecrementsRemaining(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 1000, 3)
	f.fund(t, userAddr, 1000)

	require.NoError(t, f.svc.Purchase(f.ctx, userAddr, detail.Coupon.AssetID))

	record, err := f.st.Coupons().GetByAssetID(detail.Coupon.AssetID)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), record.RedemptionsRemaining)
}

func TestPurchaseRejectsFreeCoupon(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 1)
	f.fund(t, userAddr, 1000)

	err := f.svc.Purchase(f.ctx, userAddr, detail.Coupon.AssetID)
	assert.ErrorIs(t, err, ErrNotPaidCoupon)
}

func TestPurchaseRollsBackOnInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 1000, 1)
	assetID := detail.Coupon.AssetID
	f.fund(t, userAddr, 999)

	err := f.svc.Purchase(f.ctx, userAddr, assetID)
	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	// Nothing moved: no partial fee, no asset release.
	assert.Equal(t, uint64(999), f.balance(t, userAddr))
	assert.Equal(t, uint64(0), f.balance(t, merchantAddr))
	assert.Equal(t, uint64(0), f.balance(t, platformAddr))
	assert.Equal(t, uint64(1), f.escrowBalance(t, assetID))
}

func TestRedeemSingleUseBurns(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 1)
	assetID := detail.Coupon.AssetID
	require.NoError(t, f.svc.Claim(f.ctx, userAddr, assetID))

	// The claim already consumed the counter; holding the un-burned unit
	// still entitles the claimant to the single redemption.
	record, err := f.st.Coupons().GetByAssetID(assetID)
	require.NoError(t, err)
	require.Equal(t, uint8(0), record.RedemptionsRemaining)

	result, err := f.svc.Redeem(f.ctx, userAddr, assetID)
	require.NoError(t, err)
	assert.True(t, result.Burned)
	assert.Equal(t, uint8(0), result.RedemptionsRemaining)

	balance, _ := f.ledger.Balance(f.st, assetID, userAddr)
	assert.Equal(t, uint64(0), balance)

	asset, err := f.st.Assets().GetByID(assetID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), asset.Supply)

	redemptions, err := f.svc.ListRedemptions(f.ctx, assetID)
	require.NoError(t, err)
	require.Len(t, redemptions, 1)
	assert.Equal(t, userAddr, redemptions[0].UserAddress)

	_, err = f.svc.Redeem(f.ctx, userAddr, assetID)
	assert.ErrorIs(t, err, ErrCouponFullyRedeemed)
}

func TestRedeemMultiUseBurnsOnLastUse(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 4)
	assetID := detail.Coupon.AssetID

	// The claim takes 4 down to 3, leaving three redemptions.
	require.NoError(t, f.svc.Claim(f.ctx, userAddr, assetID))

	result, err := f.svc.Redeem(f.ctx, userAddr, assetID)
	require.NoError(t, err)
	assert.False(t, result.Burned)
	assert.Equal(t, uint8(2), result.RedemptionsRemaining)

	result, err = f.svc.Redeem(f.ctx, userAddr, assetID)
	require.NoError(t, err)
	assert.False(t, result.Burned)
	assert.Equal(t, uint8(1), result.RedemptionsRemaining)

	// Holder keeps the coupon between uses.
	balance, _ := f.ledger.Balance(f.st, assetID, userAddr)
	assert.Equal(t, uint64(1), balance)

	result, err = f.svc.Redeem(f.ctx, userAddr, assetID)
	require.NoError(t, err)
	assert.True(t, result.Burned)
	assert.Equal(t, uint8(0), result.RedemptionsRemaining)

	balance, _ = f.ledger.Balance(f.st, assetID, userAddr)
	assert.Equal(t, uint64(0), balance)

	redemptions, err := f.svc.ListRedemptions(f.ctx, assetID)
	require.NoError(t, err)
	assert.Len(t, redemptions, 3)
}

func TestRedeemRequiresHolding(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 1)

	_, err := f.svc.Redeem(f.ctx, userAddr, detail.Coupon.AssetID)
	assert.ErrorIs(t, err, ErrNotCouponHolder)
}

func TestSetActiveGatesDistribution(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 1)
	assetID := detail.Coupon.AssetID

	err := f.svc.SetActive(f.ctx, userAddr, assetID, false)
	assert.ErrorIs(t, err, ErrUnauthorizedMerchant)

	require.NoError(t, f.svc.SetActive(f.ctx, merchantAddr, assetID, false))
	assert.ErrorIs(t, f.svc.Claim(f.ctx, userAddr, assetID), ErrCouponInactive)

	require.NoError(t, f.svc.SetActive(f.ctx, merchantAddr, assetID, true))
	require.NoError(t, f.svc.Claim(f.ctx, userAddr, assetID))
}

func TestClaimExpiredCoupon(t *testing.T) {
	f := newFixture(t)
	detail := f.createCoupon(t, 0, 1)
	assetID := detail.Coupon.AssetID

	record, err := f.st.Coupons().GetByAssetID(assetID)
	require.NoError(t, err)
	record.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.st.Coupons().Update(record))

	assert.ErrorIs(t, f.svc.Claim(f.ctx, userAddr, assetID), ErrCouponExpired)
	_, err = f.svc.Redeem(f.ctx, userAddr, assetID)
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestListActiveAndByMerchant(t *testing.T) {
	f := newFixture(t)
	f.createCoupon(t, 0, 1)
	second := f.createCoupon(t, 500, 1)
	require.NoError(t, f.svc.SetActive(f.ctx, merchantAddr, second.Coupon.AssetID, false))

	active, err := f.svc.ListActive(f.ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	mine, err := f.svc.ListByMerchant(f.ctx, merchantAddr)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
