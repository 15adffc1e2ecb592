package token

import (
	"testing"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/services/custody"
	"couponvault/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	holderA = "aa11111111111111111111111111111111111111111111111111111111111111"
	holderB = "bb22222222222222222222222222222222222222222222222222222222222222"
)

func newTestLedger(t *testing.T) (Service, repositories.Store, *custody.Keeper) {
	t.Helper()
	keeper := custody.NewKeeper("couponvault-test", "test-signing-key")
	return NewLedger(keeper), testutil.NewStore(t), keeper
}

func createAsset(t *testing.T, st repositories.Store, id string, maxSupply uint64) {
	t.Helper()
	require.NoError(t, st.Assets().Create(&models.Asset{
		ID:        id,
		Name:      "Test Asset",
		MaxSupply: maxSupply,
	}))
}

func TestMintRespectsSupplyCap(t *testing.T) {
	ledger, st, _ := newTestLedger(t)
	createAsset(t, st, "asset-1", 1)

	_, err := ledger.EnsureHolderAccount(st, "asset-1", holderA)
	require.NoError(t, err)

	require.NoError(t, ledger.Mint(st, "asset-1", holderA, 1))

	err = ledger.Mint(st, "asset-1", holderA, 1)
	assert.ErrorIs(t, err, ErrSupplyCapExceeded)

	balance, err := ledger.Balance(st, "asset-1", holderA)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), balance)
}

func TestTransferMovesUnitsBetweenHolders(t *testing.T) {
	ledger, st, _ := newTestLedger(t)
	createAsset(t, st, "asset-1", 1)

	_, err := ledger.EnsureHolderAccount(st, "asset-1", holderA)
	require.NoError(t, err)
	require.NoError(t, ledger.Mint(st, "asset-1", holderA, 1))

	err = ledger.Transfer(st, "asset-1", holderA, holderB, 1, custody.Authority{Address: holderA})
	require.NoError(t, err)

	fromBalance, _ := ledger.Balance(st, "asset-1", holderA)
	toBalance, _ := ledger.Balance(st, "asset-1", holderB)
	assert.Equal(t, uint64(0), fromBalance)
	assert.Equal(t, uint64(1), toBalance)
}

func TestTransferRejectsWrongAuthority(t *testing.T) {
	ledger, st, _ := newTestLedger(t)
	createAsset(t, st, "asset-1", 1)

	_, err := ledger.EnsureHolderAccount(st, "asset-1", holderA)
	require.NoError(t, err)
	require.NoError(t, ledger.Mint(st, "asset-1", holderA, 1))

	err = ledger.Transfer(st, "asset-1", holderA, holderB, 1, custody.Authority{Address: holderB})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTransferInsufficientUnits(t *testing.T) {
	ledger, st, _ := newTestLedger(t)
	createAsset(t, st, "asset-1", 1)

	_, err := ledger.EnsureHolderAccount(st, "asset-1", holderA)
	require.NoError(t, err)

	err = ledger.Transfer(st, "asset-1", holderA, holderB, 1, custody.Authority{Address: holderA})
	assert.ErrorIs(t, err, ErrInsufficientUnits)
}

func TestEscrowTransferRequiresProof(t *testing.T) {
	ledger, st, keeper := newTestLedger(t)
	createAsset(t, st, "asset-1", 1)

	escrow, err := keeper.Derive(custody.LabelIssuanceEscrow, holderA, "asset-1")
	require.NoError(t, err)
	_, err = ledger.CreateAccount(st, "asset-1", escrow.Address, escrow.Address,
		models.AccountKindIssuanceEscrow, escrow.Bump)
	require.NoError(t, err)
	require.NoError(t, ledger.Mint(st, "asset-1", escrow.Address, 1))

	// No proof at all.
	err = ledger.Transfer(st, "asset-1", escrow.Address, holderB, 1,
		custody.Authority{Address: escrow.Address})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Forged proof.
	err = ledger.Transfer(st, "asset-1", escrow.Address, holderB, 1,
		custody.Authority{Address: escrow.Address, Proof: []byte("forged")})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Keeper-issued proof.
	err = ledger.Transfer(st, "asset-1", escrow.Address, holderB, 1, keeper.Authority(escrow.Address))
	require.NoError(t, err)

	balance, _ := ledger.Balance(st, "asset-1", holderB)
	assert.Equal(t, uint64(1), balance)
}

func TestBurnReducesSupply(t *testing.T) {
	ledger, st, _ := newTestLedger(t)
	createAsset(t, st, "asset-1", 1)

	_, err := ledger.EnsureHolderAccount(st, "asset-1", holderA)
	require.NoError(t, err)
	require.NoError(t, ledger.Mint(st, "asset-1", holderA, 1))

	require.NoError(t, ledger.Burn(st, "asset-1", holderA, 1, custody.Authority{Address: holderA}))

	balance, _ := ledger.Balance(st, "asset-1", holderA)
	assert.Equal(t, uint64(0), balance)

	asset, err := st.Assets().GetByID("asset-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), asset.Supply)
}

func TestCreateAccountRejectsDuplicate(t *testing.T) {
	ledger, st, _ := newTestLedger(t)
	createAsset(t, st, "asset-1", 1)

	_, err := ledger.CreateAccount(st, "asset-1", holderA, holderA, models.AccountKindHolder, 0)
	require.NoError(t, err)

	_, err = ledger.CreateAccount(st, "asset-1", holderA, holderA, models.AccountKindHolder, 0)
	assert.ErrorIs(t, err, ErrAccountExists)
}
