package coupon

import "errors"

var (
	ErrCouponNotFound             = errors.New("coupon not found")
	ErrInvalidDiscountPercentage  = errors.New("discount percentage must be between 1 and 100")
	ErrInvalidExpiry              = errors.New("expiry must be in the future")
	ErrInvalidRedemptionCount     = errors.New("max redemptions must be at least 1")
	ErrInvalidCategory            = errors.New("invalid coupon category")
	ErrUnauthorizedMerchant       = errors.New("caller is not the coupon merchant")
	ErrCouponInactive             = errors.New("coupon is not active")
	ErrCouponExpired              = errors.New("coupon has expired")
	ErrNoRedemptionsRemaining     = errors.New("no redemptions remaining")
	ErrCouponFullyRedeemed        = errors.New("coupon is fully redeemed")
	ErrNotFreeCoupon              = errors.New("coupon is not free; use purchase")
	ErrNotPaidCoupon              = errors.New("coupon is free; use claim")
	ErrNotCouponHolder            = errors.New("caller does not hold the coupon")
)
