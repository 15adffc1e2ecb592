package repositories

import (
	"couponvault/internal/models"

	"gorm.io/gorm"
)

// Store aggregates the per-record repositories behind one unit-of-work.
// ExecuteInTransaction runs fn against a Store bound to a single database
// transaction: every settlement protocol commits as one atomic unit or not
// at all.
type Store interface {
	Users() UserRepository
	Merchants() MerchantRepository
	Coupons() CouponRepository
	Assets() AssetRepository
	TokenAccounts() TokenAccountRepository
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Redemptions() RedemptionRepository
	ExecuteInTransaction(fn func(Store) error) error
}

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAddress(address string) (*models.User, error)
	Update(user *models.User) error
	IncrementTokenVersion(id uint) error
}

type MerchantRepository interface {
	Create(merchant *models.Merchant) error
	GetByAuthority(authority string) (*models.Merchant, error)
	Update(merchant *models.Merchant) error
}

type CouponRepository interface {
	Create(record *models.CouponRecord) error
	GetByAssetID(assetID string) (*models.CouponRecord, error)
	// GetByAssetIDForUpdate takes a row lock so concurrent release or
	// redemption attempts against the same record are linearized.
	GetByAssetIDForUpdate(assetID string) (*models.CouponRecord, error)
	Update(record *models.CouponRecord) error
	ListActive(limit, offset int) ([]models.CouponRecord, error)
	ListByMerchant(authority string) ([]models.CouponRecord, error)
}

type AssetRepository interface {
	Create(asset *models.Asset) error
	GetByID(id string) (*models.Asset, error)
	Update(asset *models.Asset) error
}

type TokenAccountRepository interface {
	Create(account *models.TokenAccount) error
	Get(assetID, address string) (*models.TokenAccount, error)
	GetForUpdate(assetID, address string) (*models.TokenAccount, error)
	Update(account *models.TokenAccount) error
}

type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByAddress(address string) (*models.Wallet, error)
	GetByAddressForUpdate(address string) (*models.Wallet, error)
	Update(wallet *models.Wallet) error
}

type TransactionRepository interface {
	Create(tx *models.Transaction) error
	ListByAddress(address string, limit, offset int) ([]models.Transaction, error)
}

type RedemptionRepository interface {
	Create(r *models.Redemption) error
	ListByAsset(assetID string) ([]models.Redemption, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm database handle in a Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository                 { return &userRepository{db: s.db} }
func (s *gormStore) Merchants() MerchantRepository         { return &merchantRepository{db: s.db} }
func (s *gormStore) Coupons() CouponRepository             { return &couponRepository{db: s.db} }
func (s *gormStore) Assets() AssetRepository               { return &assetRepository{db: s.db} }
func (s *gormStore) TokenAccounts() TokenAccountRepository { return &tokenAccountRepository{db: s.db} }
func (s *gormStore) Wallets() WalletRepository             { return &walletRepository{db: s.db} }
func (s *gormStore) Transactions() TransactionRepository   { return &transactionRepository{db: s.db} }
func (s *gormStore) Redemptions() RedemptionRepository     { return &redemptionRepository{db: s.db} }

func (s *gormStore) ExecuteInTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
