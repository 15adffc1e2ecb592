package models

import "time"

// Coupon categories (fixed set)
const (
	CategoryFood          = "food"
	CategoryRetail        = "retail"
	CategoryTravel        = "travel"
	CategoryEntertainment = "entertainment"
	CategoryServices      = "services"
	CategoryOther         = "other"
)

// ValidCategory reports whether c is one of the fixed coupon categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryRetail, CategoryTravel,
		CategoryEntertainment, CategoryServices, CategoryOther:
		return true
	}
	return false
}

// CouponRecord holds one voucher's terms and mutable redemption state.
// Keyed by the backing asset id; created exactly once per asset.
// Invariant: 0 <= RedemptionsRemaining <= MaxRedemptions.
type CouponRecord struct {
	ID                   uint   `gorm:"primarykey"`
	AssetID              string `gorm:"uniqueIndex;not null"`
	MerchantAuthority    string `gorm:"index;not null"`
	DiscountPercentage   uint8  `gorm:"not null"`
	ExpiresAt            time.Time
	Category             string `gorm:"not null"`
	RedemptionsRemaining uint8  `gorm:"not null"`
	MaxRedemptions       uint8  `gorm:"not null"`
	IsActive             bool   `gorm:"default:true"`
	Price                uint64 `gorm:"default:0"` // lamports; 0 = free
	DerivationSalt       uint8  `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
