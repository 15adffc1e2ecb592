package repositories

import (
	"errors"
	"fmt"

	"couponvault/internal/models"

	"gorm.io/gorm"
)

type tokenAccountRepository struct {
	db *gorm.DB
}

func (r *tokenAccountRepository) Create(account *models.TokenAccount) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create token account: %w", err)
	}
	return nil
}

func (r *tokenAccountRepository) Get(assetID, address string) (*models.TokenAccount, error) {
	return r.get(r.db, assetID, address)
}

func (r *tokenAccountRepository) GetForUpdate(assetID, address string) (*models.TokenAccount, error) {
	return r.get(forUpdate(r.db), assetID, address)
}

func (r *tokenAccountRepository) get(db *gorm.DB, assetID, address string) (*models.TokenAccount, error) {
	var account models.TokenAccount
	err := db.Where("asset_id = ? AND address = ?", assetID, address).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenAccountNotFound
		}
		return nil, fmt.Errorf("failed to get token account: %w", err)
	}
	return &account, nil
}

func (r *tokenAccountRepository) Update(account *models.TokenAccount) error {
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update token account: %w", err)
	}
	return nil
}
