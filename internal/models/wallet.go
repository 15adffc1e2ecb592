package models

import "time"

// Wallet holds a fungible lamport balance for one identity address.
type Wallet struct {
	ID           uint   `gorm:"primarykey"`
	Address      string `gorm:"uniqueIndex;not null"`
	Balance      uint64 `gorm:"default:0"`
	Status       string `gorm:"default:'active'"`
	StatusReason string `gorm:"default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
