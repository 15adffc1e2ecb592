package repositories

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMerchantNotFound     = errors.New("merchant not found")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrTokenAccountNotFound = errors.New("token account not found")
	ErrWalletNotFound       = errors.New("wallet not found")
)
