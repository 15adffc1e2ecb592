package handlers

import (
	"errors"

	"couponvault/internal/models"
	"couponvault/internal/services/coupon"
	"couponvault/internal/services/merchant"
	"couponvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type MerchantHandler struct {
	merchantService merchant.Service
	couponService   coupon.Service
}

func NewMerchantHandler(merchantService merchant.Service, couponService coupon.Service) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		couponService:   couponService,
	}
}

// RegisterMerchant creates the caller's merchant record.
func (h *MerchantHandler) RegisterMerchant(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		BusinessName string `json:"business_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	m, err := h.merchantService.Register(c.Context(), claims.Address, input.BusinessName)
	if err != nil {
		switch {
		case errors.Is(err, merchant.ErrMerchantExists):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, merchant.ErrBusinessNameRequired), errors.Is(err, merchant.ErrBusinessNameTooLong):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to register merchant")
		}
	}

	return utils.Created(c, m)
}

// GetMerchantProfile returns the caller's merchant record.
func (h *MerchantHandler) GetMerchantProfile(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	m, err := h.merchantService.Get(c.Context(), claims.Address)
	if err != nil {
		if errors.Is(err, merchant.ErrMerchantNotFound) {
			return utils.NotFound(c, "Merchant not found")
		}
		return utils.InternalError(c, "Failed to get merchant")
	}

	return utils.Success(c, m)
}

// GetMerchantCoupons lists every coupon the caller has issued.
func (h *MerchantHandler) GetMerchantCoupons(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	coupons, err := h.couponService.ListByMerchant(c.Context(), claims.Address)
	if err != nil {
		return utils.InternalError(c, "Failed to list coupons")
	}

	return utils.Success(c, fiber.Map{"coupons": coupons})
}
