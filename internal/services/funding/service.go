// Package funding converts external card payments into wallet balance.
// Cards arrive as pre-tokenized references (tok_...) produced by the
// payment provider's client SDK; raw card numbers are never accepted.
package funding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"couponvault/internal/services/wallet"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

var (
	ErrInvalidAmount    = errors.New("top-up amount must be greater than zero")
	ErrInvalidCardToken = errors.New("invalid card token")
	ErrChargeFailed     = errors.New("card charge failed")
)

type Service interface {
	TopUpFromCard(ctx context.Context, address, cardToken string, amount uint64) error
}

type service struct {
	wallets wallet.Service
}

func NewService(wallets wallet.Service) Service {
	if wallets == nil {
		panic("wallet service is required")
	}
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &service{wallets: wallets}
}

// TopUpFromCard charges the card and credits the wallet one lamport per
// cent charged. The wallet credit only happens after the charge succeeds;
// a failed credit is surfaced for manual reconciliation against the
// charge id.
func (s *service) TopUpFromCard(ctx context.Context, address, cardToken string, amount uint64) error {
	if amount == 0 || amount > math.MaxInt64 {
		return ErrInvalidAmount
	}
	if !strings.HasPrefix(cardToken, "tok_") {
		return ErrInvalidCardToken
	}

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(int64(amount)),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(fmt.Sprintf("Wallet top-up for %s", address)),
	}
	if err := params.SetSource(cardToken); err != nil {
		return ErrInvalidCardToken
	}

	ch, err := charge.New(params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}

	if err := s.wallets.TopUp(ctx, address, amount,
		fmt.Sprintf("Card top-up, charge %s", ch.ID)); err != nil {
		return fmt.Errorf("charge %s succeeded but wallet credit failed: %w", ch.ID, err)
	}
	return nil
}
