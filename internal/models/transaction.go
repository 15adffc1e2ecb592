package models

import "time"

// Transaction types
const (
	TransactionTypeIssue          = "COUPON_ISSUE"
	TransactionTypeClaim          = "COUPON_CLAIM"
	TransactionTypePurchase       = "COUPON_PURCHASE"
	TransactionTypeList           = "RESALE_LIST"
	TransactionTypeResalePurchase = "RESALE_PURCHASE"
	TransactionTypeP2PTransfer    = "P2P_TRANSFER"
	TransactionTypeRedeem         = "COUPON_REDEEM"
	TransactionTypeTopup          = "TOPUP"
)

// Transaction is the journal row written by every settlement unit.
type Transaction struct {
	ID              uint   `gorm:"primarykey"`
	Reference       string `gorm:"uniqueIndex;not null"`
	Type            string `gorm:"not null"`
	SenderAddress   string `gorm:"index"`
	ReceiverAddress string `gorm:"index"`
	AssetID         string `gorm:"index"`
	Amount          uint64 `gorm:"default:0"` // lamports moved to the counterparty
	Fee             uint64 `gorm:"default:0"` // lamports moved to the platform
	Status          string `gorm:"not null;default:'completed'"`
	Description     string
	Metadata        JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
