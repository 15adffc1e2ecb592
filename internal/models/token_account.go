package models

import "time"

// Token account kinds
const (
	AccountKindHolder         = "holder"
	AccountKindIssuanceEscrow = "issuance_escrow"
	AccountKindResaleEscrow   = "resale_escrow"
)

// TokenAccount is a holding account for a single asset. Holder accounts are
// keyed by the holder's identity address; escrow accounts by their derived
// custody address, with Authority set to the signing identity the ledger
// requires for outbound transfers.
type TokenAccount struct {
	ID        uint   `gorm:"primarykey"`
	AssetID   string `gorm:"uniqueIndex:idx_asset_address;not null"`
	Address   string `gorm:"uniqueIndex:idx_asset_address;not null"`
	Authority string `gorm:"not null"`
	Kind      string `gorm:"default:'holder'"`
	Amount    uint64 `gorm:"default:0"`
	Bump      uint8  `gorm:"default:0"` // derivation proof for escrow accounts
	CreatedAt time.Time
	UpdatedAt time.Time
}
