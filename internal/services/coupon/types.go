package coupon

import (
	"time"

	"couponvault/internal/models"
)

// CreateCouponRequest carries the issuance terms. Price of zero makes the
// coupon claimable for free; any other value routes it through purchase.
type CreateCouponRequest struct {
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	MetadataURI        string    `json:"metadata_uri"`
	DiscountPercentage uint8     `json:"discount_percentage"`
	ExpiresAt          time.Time `json:"expires_at"`
	Category           string    `json:"category"`
	MaxRedemptions     uint8     `json:"max_redemptions"`
	Price              uint64    `json:"price"`
}

// CouponDetail is the read-side projection returned to callers.
type CouponDetail struct {
	Coupon *models.CouponRecord `json:"coupon"`
	Asset  *models.Asset        `json:"asset"`
}

// RedemptionResult reports the state after a successful redemption.
type RedemptionResult struct {
	AssetID              string    `json:"asset_id"`
	RedemptionsRemaining uint8     `json:"redemptions_remaining"`
	Burned               bool      `json:"burned"`
	RedeemedAt           time.Time `json:"redeemed_at"`
}
