// Package fees implements the fixed platform fee split applied to every
// paid settlement leg.
package fees

import (
	"errors"
	"math/bits"
)

// Platform fee: 2.5% of every payment, floor division.
const (
	PlatformFeeNumerator   = 25
	PlatformFeeDenominator = 1000
)

// ErrArithmeticOverflow is returned when the fee cannot be computed
// exactly. No funds may move when the split overflows.
var ErrArithmeticOverflow = errors.New("arithmetic overflow in fee calculation")

// Split divides price into the counterparty amount and the platform fee.
// Invariant: counterparty + fee == price exactly.
func Split(price uint64) (counterparty, fee uint64, err error) {
	hi, lo := bits.Mul64(price, PlatformFeeNumerator)
	if hi != 0 {
		return 0, 0, ErrArithmeticOverflow
	}
	fee = lo / PlatformFeeDenominator
	return price - fee, fee, nil
}
