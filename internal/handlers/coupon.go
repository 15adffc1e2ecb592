package handlers

import (
	"errors"

	"couponvault/internal/models"
	"couponvault/internal/services/coupon"
	"couponvault/internal/services/wallet"
	"couponvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CouponHandler struct {
	couponService coupon.Service
}

func NewCouponHandler(couponService coupon.Service) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// CreateCoupon issues a new coupon for the caller's merchant record.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var req coupon.CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	detail, err := h.couponService.Create(c.Context(), claims.Address, req)
	if err != nil {
		switch {
		case errors.Is(err, coupon.ErrUnauthorizedMerchant):
			return utils.Forbidden(c, "Merchant registration required")
		case errors.Is(err, coupon.ErrInvalidDiscountPercentage),
			errors.Is(err, coupon.ErrInvalidExpiry),
			errors.Is(err, coupon.ErrInvalidRedemptionCount),
			errors.Is(err, coupon.ErrInvalidCategory):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to create coupon")
		}
	}

	return utils.Created(c, detail)
}

// GetCoupon returns one coupon with its backing asset.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	detail, err := h.couponService.Get(c.Context(), c.Params("assetId"))
	if err != nil {
		if errors.Is(err, coupon.ErrCouponNotFound) {
			return utils.NotFound(c, "Coupon not found")
		}
		return utils.InternalError(c, "Failed to get coupon")
	}
	return utils.Success(c, detail)
}

// ListCoupons returns a page of active coupons.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	coupons, err := h.couponService.ListActive(c.Context(), limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list coupons")
	}

	return utils.Success(c, fiber.Map{
		"coupons": coupons,
		"limit":   limit,
		"offset":  offset,
	})
}

// ClaimCoupon hands a free coupon to the caller.
func (h *CouponHandler) ClaimCoupon(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.couponService.Claim(c.Context(), claims.Address, c.Params("assetId")); err != nil {
		return h.lifecycleError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Coupon claimed"})
}

// PurchaseCoupon buys a paid coupon from issuance custody.
func (h *CouponHandler) PurchaseCoupon(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.couponService.Purchase(c.Context(), claims.Address, c.Params("assetId")); err != nil {
		return h.lifecycleError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Coupon purchased"})
}

// RedeemCoupon consumes one use of a coupon the caller holds.
func (h *CouponHandler) RedeemCoupon(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.couponService.Redeem(c.Context(), claims.Address, c.Params("assetId"))
	if err != nil {
		return h.lifecycleError(c, err)
	}

	return utils.Success(c, result)
}

// SetCouponActive toggles the coupon's distribution flag.
func (h *CouponHandler) SetCouponActive(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.couponService.SetActive(c.Context(), claims.Address, c.Params("assetId"), input.Active); err != nil {
		if errors.Is(err, coupon.ErrUnauthorizedMerchant) {
			return utils.Forbidden(c, err.Error())
		}
		return h.lifecycleError(c, err)
	}

	return utils.Success(c, fiber.Map{"active": input.Active})
}

// GetRedemptions lists the coupon's redemption records.
func (h *CouponHandler) GetRedemptions(c *fiber.Ctx) error {
	redemptions, err := h.couponService.ListRedemptions(c.Context(), c.Params("assetId"))
	if err != nil {
		return utils.InternalError(c, "Failed to list redemptions")
	}
	return utils.Success(c, fiber.Map{"redemptions": redemptions})
}

func (h *CouponHandler) lifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, coupon.ErrCouponNotFound):
		return utils.NotFound(c, "Coupon not found")
	case errors.Is(err, coupon.ErrCouponInactive),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrNoRedemptionsRemaining),
		errors.Is(err, coupon.ErrCouponFullyRedeemed),
		errors.Is(err, coupon.ErrNotFreeCoupon),
		errors.Is(err, coupon.ErrNotPaidCoupon),
		errors.Is(err, coupon.ErrNotCouponHolder):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return utils.BadRequest(c, "Insufficient balance")
	default:
		return utils.InternalError(c, "Operation failed")
	}
}
