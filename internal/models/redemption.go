package models

import "time"

// Redemption is the append-only record emitted whenever a coupon use is
// consumed. External observers read it; settlement logic never does.
type Redemption struct {
	ID                   uint   `gorm:"primarykey"`
	AssetID              string `gorm:"index;not null"`
	MerchantAuthority    string `gorm:"index;not null"`
	UserAddress          string `gorm:"index;not null"`
	RedemptionsRemaining uint8  `gorm:"not null"`
	RedeemedAt           time.Time
}
