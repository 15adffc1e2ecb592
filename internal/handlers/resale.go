package handlers

import (
	"errors"

	"couponvault/internal/models"
	"couponvault/internal/services/resale"
	"couponvault/internal/services/wallet"
	"couponvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ResaleHandler struct {
	resaleService resale.Service
}

func NewResaleHandler(resaleService resale.Service) *ResaleHandler {
	return &ResaleHandler{
		resaleService: resaleService,
	}
}

// ListForResale escrows the caller's coupon for sale.
func (h *ResaleHandler) ListForResale(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		AssetID  string `json:"asset_id"`
		AskPrice uint64 `json:"ask_price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.resaleService.List(c.Context(), claims.Address, input.AssetID, input.AskPrice); err != nil {
		return h.resaleError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Coupon listed for resale"})
}

// PurchaseFromResale buys an escrowed coupon at the asserted price.
func (h *ResaleHandler) PurchaseFromResale(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		AssetID string `json:"asset_id"`
		Seller  string `json:"seller"`
		Price   uint64 `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.resaleService.PurchaseFromResale(c.Context(), claims.Address, input.Seller, input.AssetID, input.Price); err != nil {
		return h.resaleError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Coupon purchased from resale"})
}

// ApproveTransfer issues the caller's co-signature for a direct transfer.
func (h *ResaleHandler) ApproveTransfer(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		AssetID string `json:"asset_id"`
		Buyer   string `json:"buyer"`
		Price   uint64 `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	approval, err := h.resaleService.ApproveTransfer(c.Context(), claims.Address, input.Buyer, input.AssetID, input.Price)
	if err != nil {
		return h.resaleError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"approval":   approval,
		"expires_in": resale.ApprovalTTL.String(),
	})
}

// TransferP2P settles a direct sale using the seller's approval.
func (h *ResaleHandler) TransferP2P(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		AssetID  string `json:"asset_id"`
		Approval string `json:"approval"`
		Price    uint64 `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.resaleService.TransferP2P(c.Context(), claims.Address, input.AssetID, input.Approval, input.Price); err != nil {
		return h.resaleError(c, err)
	}

	return utils.Success(c, fiber.Map{"message": "Coupon transferred"})
}

func (h *ResaleHandler) resaleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, resale.ErrCouponNotFound):
		return utils.NotFound(c, "Coupon not found")
	case errors.Is(err, resale.ErrInvalidPrice),
		errors.Is(err, resale.ErrNotHolder),
		errors.Is(err, resale.ErrNotListed),
		errors.Is(err, resale.ErrAlreadyListed),
		errors.Is(err, resale.ErrInvalidAssetAmount):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, resale.ErrInvalidApproval):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return utils.BadRequest(c, "Insufficient balance")
	default:
		return utils.InternalError(c, "Operation failed")
	}
}
