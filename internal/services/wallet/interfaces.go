package wallet

import (
	"context"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
)

// Service manages lamport-denominated balances. Credit, Debit and Pay take
// the caller's store so fund legs settle inside the caller's atomic unit;
// the remaining methods open their own unit when they need one.
type Service interface {
	GetWallet(ctx context.Context, address string) (*models.Wallet, error)
	CreateWallet(ctx context.Context, address string) (*models.Wallet, error)
	GetBalance(ctx context.Context, address string) (uint64, error)

	Credit(st repositories.Store, address string, amount uint64) error
	Debit(st repositories.Store, address string, amount uint64) error
	Pay(st repositories.Store, from, to string, amount uint64) error

	TopUp(ctx context.Context, address string, amount uint64, description string) error
	LockWallet(ctx context.Context, address, reason string) error
	UnlockWallet(ctx context.Context, address string) error
	GetTransactionHistory(ctx context.Context, address string, limit, offset int) ([]models.Transaction, error)
}
