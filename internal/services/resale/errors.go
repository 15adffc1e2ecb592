package resale

import "errors"

var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrInvalidPrice       = errors.New("price must be greater than zero")
	ErrInvalidAssetAmount = errors.New("exactly one unit must be escrowed")
	ErrNotHolder          = errors.New("seller does not hold the coupon")
	ErrNotListed          = errors.New("coupon is not listed for resale")
	ErrAlreadyListed      = errors.New("coupon is already listed for resale")
	ErrInvalidApproval    = errors.New("invalid or expired transfer approval")
)
