package models

import "time"

// Asset is a unique, supply-capped token materialized by the issuance
// service. MaxSupply is 1 for coupon assets; Supply drops to 0 on burn.
type Asset struct {
	ID          string `gorm:"primarykey"` // issuance service handle
	Name        string `gorm:"size:32;not null"`
	Description string
	MetadataURI string
	Fingerprint string `gorm:"not null"`
	Creator     string `gorm:"index;not null"`
	Supply      uint64 `gorm:"not null"`
	MaxSupply   uint64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
