package funding

import (
	"context"
	"math"
	"testing"

	"couponvault/internal/services/wallet"
	"couponvault/internal/testutil"

	"github.com/stretchr/testify/assert"
)

const addr = "aa11111111111111111111111111111111111111111111111111111111111111"

func TestTopUpFromCardValidation(t *testing.T) {
	st := testutil.NewStore(t)
	wallets := wallet.NewService(st, testutil.NewCache(t), nil)
	svc := NewService(wallets)
	ctx := context.Background()

	err := svc.TopUpFromCard(ctx, addr, "tok_visa", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	err = svc.TopUpFromCard(ctx, addr, "card_123", 100)
	assert.ErrorIs(t, err, ErrInvalidCardToken)

	// Amounts past the charge API's signed range are rejected before any
	// charge is attempted.
	err = svc.TopUpFromCard(ctx, addr, "tok_visa", uint64(math.MaxInt64)+1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
