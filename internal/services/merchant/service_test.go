package merchant

import (
	"context"
	"strings"
	"testing"

	"couponvault/internal/services/custody"
	"couponvault/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authority = "aa11111111111111111111111111111111111111111111111111111111111111"

func newTestService(t *testing.T) Service {
	t.Helper()
	keeper := custody.NewKeeper("couponvault-test", "test-signing-key")
	return NewService(testutil.NewStore(t), keeper)
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Register(ctx, authority, "Corner Bakery")
	require.NoError(t, err)
	assert.Equal(t, authority, m.Authority)
	assert.Equal(t, "Corner Bakery", m.BusinessName)
	assert.Equal(t, uint64(0), m.TotalCouponsCreated)

	got, err := svc.Get(ctx, authority)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authority, "Corner Bakery")
	require.NoError(t, err)

	_, err = svc.Register(ctx, authority, "Another Name")
	assert.ErrorIs(t, err, ErrMerchantExists)
}

func TestRegisterValidatesBusinessName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authority, "")
	assert.ErrorIs(t, err, ErrBusinessNameRequired)

	_, err = svc.Register(ctx, authority, strings.Repeat("x", 101))
	assert.ErrorIs(t, err, ErrBusinessNameTooLong)

	// Limit counts characters, not bytes.
	name := strings.Repeat("é", 100)
	m, err := svc.Register(ctx, authority, name)
	require.NoError(t, err)
	assert.Equal(t, name, m.BusinessName)
}

func TestGetUnknownMerchant(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), authority)
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}
