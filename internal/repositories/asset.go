package repositories

import (
	"errors"
	"fmt"

	"couponvault/internal/models"

	"gorm.io/gorm"
)

type assetRepository struct {
	db *gorm.DB
}

func (r *assetRepository) Create(asset *models.Asset) error {
	if err := r.db.Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepository) GetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.Where("id = ?", id).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &asset, nil
}

func (r *assetRepository) Update(asset *models.Asset) error {
	if err := r.db.Save(asset).Error; err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return nil
}
