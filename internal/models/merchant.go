package models

import "time"

// Merchant is the on-record registration for a coupon issuer.
// Keyed by the authority address; exactly one record per authority.
type Merchant struct {
	ID                  uint   `gorm:"primarykey"`
	Authority           string `gorm:"uniqueIndex;not null"` // user address that controls this merchant
	BusinessName        string `gorm:"size:100;not null"`
	TotalCouponsCreated uint64 `gorm:"default:0"`
	DerivationSalt      uint8  `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
