package wallet

import (
	"context"
	"fmt"
	"sort"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/repositories/cache"

	"github.com/google/uuid"
)

type service struct {
	store   repositories.Store
	cache   *cache.CacheService
	metrics MetricsCollector
}

// NewService creates a new wallet service.
func NewService(store repositories.Store, cacheService *cache.CacheService, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}
	if cacheService == nil {
		panic("cache is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		store:   store,
		cache:   cacheService,
		metrics: metrics,
	}
}

func (s *service) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	// Try cache first
	if wallet, err := s.cache.GetWallet(ctx, address); err == nil {
		return wallet, nil
	}

	wallet, err := s.store.Wallets().GetByAddress(address)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	s.cache.SetWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) CreateWallet(ctx context.Context, address string) (*models.Wallet, error) {
	if _, err := s.store.Wallets().GetByAddress(address); err == nil {
		return nil, ErrWalletExists
	}

	wallet := &models.Wallet{
		Address: address,
		Balance: 0,
		Status:  StatusActive,
	}
	if err := s.store.Wallets().Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.cache.SetWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, address string) (uint64, error) {
	wallet, err := s.GetWallet(ctx, address)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *service) Credit(st repositories.Store, address string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	wallet, err := st.Wallets().GetByAddressForUpdate(address)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to get wallet: %w", err)
	}

	if wallet.Balance+amount < wallet.Balance {
		return ErrBalanceOverflow
	}
	wallet.Balance += amount
	return st.Wallets().Update(wallet)
}

func (s *service) Debit(st repositories.Store, address string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	wallet, err := st.Wallets().GetByAddressForUpdate(address)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to get wallet: %w", err)
	}

	if wallet.Status != StatusActive {
		return ErrWalletLocked
	}
	if wallet.Balance < amount {
		return ErrInsufficientBalance
	}
	wallet.Balance -= amount
	return st.Wallets().Update(wallet)
}

// Pay settles a single fund leg from one wallet to another inside the
// caller's unit. Rows are locked in address order so two concurrent
// payments between the same pair cannot deadlock.
func (s *service) Pay(st repositories.Store, from, to string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrSelfTransfer
	}

	order := []string{from, to}
	sort.Strings(order)
	for _, addr := range order {
		if _, err := st.Wallets().GetByAddressForUpdate(addr); err != nil {
			if err == repositories.ErrWalletNotFound {
				return fmt.Errorf("%w: %s", ErrWalletNotFound, addr)
			}
			return fmt.Errorf("failed to lock wallet: %w", err)
		}
	}

	if err := s.Debit(st, from, amount); err != nil {
		return err
	}
	return s.Credit(st, to, amount)
}

func (s *service) TopUp(ctx context.Context, address string, amount uint64, description string) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		if err := s.Credit(st, address, amount); err != nil {
			return err
		}
		return st.Transactions().Create(&models.Transaction{
			Reference:       uuid.NewString(),
			Type:            models.TransactionTypeTopup,
			ReceiverAddress: address,
			Amount:          amount,
			Status:          "completed",
			Description:     description,
		})
	})
	if err != nil {
		s.metrics.RecordError("top_up", err.Error())
		return err
	}

	s.cache.InvalidateWallet(ctx, address)
	s.metrics.RecordTransaction(models.TransactionTypeTopup, amount)
	return nil
}

func (s *service) LockWallet(ctx context.Context, address, reason string) error {
	wallet, err := s.store.Wallets().GetByAddress(address)
	if err != nil {
		return fmt.Errorf("wallet not found: %w", err)
	}

	wallet.Status = StatusLocked
	wallet.StatusReason = reason
	if err := s.store.Wallets().Update(wallet); err != nil {
		return fmt.Errorf("failed to lock wallet: %w", err)
	}

	s.cache.InvalidateWallet(ctx, address)
	return nil
}

func (s *service) UnlockWallet(ctx context.Context, address string) error {
	wallet, err := s.store.Wallets().GetByAddress(address)
	if err != nil {
		return fmt.Errorf("wallet not found: %w", err)
	}

	wallet.Status = StatusActive
	wallet.StatusReason = ""
	if err := s.store.Wallets().Update(wallet); err != nil {
		return fmt.Errorf("failed to unlock wallet: %w", err)
	}

	s.cache.InvalidateWallet(ctx, address)
	return nil
}

func (s *service) GetTransactionHistory(ctx context.Context, address string, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	history, err := s.store.Transactions().ListByAddress(address, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return history, nil
}
