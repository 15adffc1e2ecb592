package repositories

import (
	"errors"
	"fmt"

	"couponvault/internal/models"

	"gorm.io/gorm"
)

type couponRepository struct {
	db *gorm.DB
}

func (r *couponRepository) Create(record *models.CouponRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create coupon record: %w", err)
	}
	return nil
}

func (r *couponRepository) GetByAssetID(assetID string) (*models.CouponRecord, error) {
	return r.getByAssetID(r.db, assetID)
}

func (r *couponRepository) GetByAssetIDForUpdate(assetID string) (*models.CouponRecord, error) {
	return r.getByAssetID(forUpdate(r.db), assetID)
}

func (r *couponRepository) getByAssetID(db *gorm.DB, assetID string) (*models.CouponRecord, error) {
	var record models.CouponRecord
	if err := db.Where("asset_id = ?", assetID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon record: %w", err)
	}
	return &record, nil
}

func (r *couponRepository) Update(record *models.CouponRecord) error {
	if err := r.db.Save(record).Error; err != nil {
		return fmt.Errorf("failed to update coupon record: %w", err)
	}
	return nil
}

func (r *couponRepository) ListActive(limit, offset int) ([]models.CouponRecord, error) {
	var records []models.CouponRecord
	err := r.db.Where("is_active = ? AND redemptions_remaining > 0", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active coupons: %w", err)
	}
	return records, nil
}

func (r *couponRepository) ListByMerchant(authority string) ([]models.CouponRecord, error) {
	var records []models.CouponRecord
	err := r.db.Where("merchant_authority = ?", authority).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list merchant coupons: %w", err)
	}
	return records, nil
}
