package repositories

import (
	"errors"
	"fmt"

	"couponvault/internal/models"

	"gorm.io/gorm"
)

type merchantRepository struct {
	db *gorm.DB
}

func (r *merchantRepository) Create(merchant *models.Merchant) error {
	if err := r.db.Create(merchant).Error; err != nil {
		return fmt.Errorf("failed to create merchant: %w", err)
	}
	return nil
}

func (r *merchantRepository) GetByAuthority(authority string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.Where("authority = ?", authority).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return &merchant, nil
}

func (r *merchantRepository) Update(merchant *models.Merchant) error {
	if err := r.db.Save(merchant).Error; err != nil {
		return fmt.Errorf("failed to update merchant: %w", err)
	}
	return nil
}
