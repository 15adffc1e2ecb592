package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"couponvault/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes
const (
	couponKeyPrefix = "coupon:"
	walletKeyPrefix = "wallet:"
)

// CacheService is a thin JSON-over-redis cache for hot reads.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Coupon helpers

func CouponKey(assetID string) string {
	return couponKeyPrefix + assetID
}

func (s *CacheService) GetCoupon(ctx context.Context, assetID string) (*models.CouponRecord, error) {
	var record models.CouponRecord
	if err := s.Get(ctx, CouponKey(assetID), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *CacheService) SetCoupon(ctx context.Context, record *models.CouponRecord) error {
	return s.Set(ctx, CouponKey(record.AssetID), record)
}

func (s *CacheService) InvalidateCoupon(ctx context.Context, assetID string) error {
	return s.Delete(ctx, CouponKey(assetID))
}

// Wallet helpers

func WalletKey(address string) string {
	return walletKeyPrefix + address
}

func (s *CacheService) GetWallet(ctx context.Context, address string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.Get(ctx, WalletKey(address), &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *CacheService) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.Set(ctx, WalletKey(wallet.Address), wallet)
}

func (s *CacheService) InvalidateWallet(ctx context.Context, address string) error {
	return s.Delete(ctx, WalletKey(address))
}
