package repositories

import (
	"fmt"

	"couponvault/internal/models"

	"gorm.io/gorm"
)

type redemptionRepository struct {
	db *gorm.DB
}

func (r *redemptionRepository) Create(redemption *models.Redemption) error {
	if err := r.db.Create(redemption).Error; err != nil {
		return fmt.Errorf("failed to create redemption: %w", err)
	}
	return nil
}

func (r *redemptionRepository) ListByAsset(assetID string) ([]models.Redemption, error) {
	var redemptions []models.Redemption
	err := r.db.Where("asset_id = ?", assetID).
		Order("redeemed_at ASC").
		Find(&redemptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	return redemptions, nil
}
