// Package testutil provides shared fixtures for service tests: an isolated
// in-memory database with the full schema, and a cache whose backend is
// unreachable so every lookup falls through to the database.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"couponvault/internal/repositories"
	"couponvault/internal/repositories/cache"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewStore opens a fresh in-memory database and applies the schema.
func NewStore(t *testing.T) repositories.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repositories.NewStore(db)
}

// NewCache returns a cache service pointed at an unreachable endpoint.
// Cache writes are fire-and-forget throughout the services, so tests run
// correctly on misses alone.
func NewCache(t *testing.T) *cache.CacheService {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   -1,
	})
	return cache.NewCacheService(client, time.Minute)
}
