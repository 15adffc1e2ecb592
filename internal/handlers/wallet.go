package handlers

import (
	"errors"

	"couponvault/internal/models"
	"couponvault/internal/services/funding"
	"couponvault/internal/services/wallet"
	"couponvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService  wallet.Service
	fundingService funding.Service
}

func NewWalletHandler(walletService wallet.Service, fundingService funding.Service) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		fundingService: fundingService,
	}
}

// GetWallet returns the caller's wallet.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.Address)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, "Wallet not found")
		}
		return utils.InternalError(c, "Failed to get wallet")
	}

	return utils.Success(c, w)
}

// TopUpWallet charges a tokenized card and credits the caller's wallet.
func (h *WalletHandler) TopUpWallet(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		CardToken string `json:"card_token"`
		Amount    uint64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if err := h.fundingService.TopUpFromCard(c.Context(), claims.Address, input.CardToken, input.Amount); err != nil {
		switch {
		case errors.Is(err, funding.ErrInvalidAmount), errors.Is(err, funding.ErrInvalidCardToken):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, funding.ErrChargeFailed):
			return utils.BadRequest(c, "Card charge failed")
		default:
			return utils.InternalError(c, "Top-up failed")
		}
	}

	return utils.Success(c, fiber.Map{
		"message": "Wallet topped up",
		"amount":  input.Amount,
	})
}

// GetTransactionHistory returns the caller's journal entries.
func (h *WalletHandler) GetTransactionHistory(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	limit := c.QueryInt("limit", wallet.DefaultHistoryLimit)
	offset := c.QueryInt("offset", 0)

	history, err := h.walletService.GetTransactionHistory(c.Context(), claims.Address, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to get transaction history")
	}

	return utils.Success(c, fiber.Map{
		"transactions": history,
		"limit":        limit,
		"offset":       offset,
	})
}
