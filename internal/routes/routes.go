// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"context"
	"log"

	"couponvault/internal/config"
	"couponvault/internal/handlers"
	"couponvault/internal/middleware"
	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/services/auth"
	"couponvault/internal/services/coupon"
	"couponvault/internal/services/custody"
	"couponvault/internal/services/funding"
	"couponvault/internal/services/merchant"
	"couponvault/internal/services/nft"
	"couponvault/internal/services/resale"
	"couponvault/internal/services/token"
	"couponvault/internal/services/user"
	"couponvault/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	store := repositories.NewStore(db)

	keeper := custody.NewKeeper(
		config.GetEnv("PROGRAM_ID", "couponvault"),
		config.GetEnv("PROGRAM_SIGNING_KEY", "dev-signing-key"),
	)
	platformAddress := config.GetEnv("PLATFORM_ADDRESS", "0000000000000000000000000000000000000000000000000000000000000000")

	// Services, wired bottom up
	ledger := token.NewLedger(keeper)
	walletService := wallet.NewService(store, repositories.CacheService, &wallet.NoopMetricsCollector{})

	// The platform fee wallet must exist before the first paid settlement.
	if _, err := walletService.GetWallet(context.Background(), platformAddress); err != nil {
		if _, err := walletService.CreateWallet(context.Background(), platformAddress); err != nil {
			log.Printf("Failed to provision platform wallet: %v", err)
		}
	}
	fundingService := funding.NewService(walletService)
	issuer := nft.NewMetadataService()

	authService := auth.NewService(store.Users())
	userService := user.NewService(store.Users(), store, walletService)
	merchantService := merchant.NewService(store, keeper)
	couponService := coupon.NewService(store, repositories.CacheService, keeper, ledger, walletService, issuer, platformAddress)
	resaleService := resale.NewService(store, repositories.CacheService, keeper, ledger, walletService, platformAddress,
		config.GetEnv("APPROVAL_SECRET", config.GetEnv("JWT_SECRET", "dev-approval-secret")))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService, fundingService)
	merchantHandler := handlers.NewMerchantHandler(merchantService, couponService)
	couponHandler := handlers.NewCouponHandler(couponService)
	resaleHandler := handlers.NewResaleHandler(resaleService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/coupons", couponHandler.ListCoupons)
	api.Get("/coupons/:assetId", couponHandler.GetCoupon)

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Get("/transactions", userHandler.GetUserTransactions)

	setupWalletRoutes(protected, walletHandler)
	setupMerchantRoutes(protected, merchantHandler, couponHandler)
	setupCouponRoutes(protected, couponHandler)
	setupResaleRoutes(protected, resaleHandler)
}

func setupWalletRoutes(router fiber.Router, h *handlers.WalletHandler) {
	w := router.Group("/wallet")
	w.Get("/", middleware.HasPermission(models.PermissionWalletRead), h.GetWallet)
	w.Post("/topup", middleware.HasPermission(models.PermissionWalletWrite), h.TopUpWallet)
	w.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), h.GetTransactionHistory)
}

func setupMerchantRoutes(router fiber.Router, h *handlers.MerchantHandler, ch *handlers.CouponHandler) {
	m := router.Group("/merchant", middleware.HasPermission(models.PermissionMerchantRead))

	m.Post("/", h.RegisterMerchant)
	m.Get("/profile", h.GetMerchantProfile)
	m.Get("/coupons", h.GetMerchantCoupons)
	m.Post("/coupons", middleware.HasPermission(models.PermissionCouponIssue), ch.CreateCoupon)
	m.Patch("/coupons/:assetId/active", middleware.HasPermission(models.PermissionCouponIssue), ch.SetCouponActive)
	m.Get("/coupons/:assetId/redemptions", ch.GetRedemptions)
}

func setupCouponRoutes(router fiber.Router, h *handlers.CouponHandler) {
	c := router.Group("/coupons", middleware.HasPermission(models.PermissionCouponTrade))

	c.Post("/:assetId/claim", h.ClaimCoupon)
	c.Post("/:assetId/purchase", h.PurchaseCoupon)
	c.Post("/:assetId/redeem", h.RedeemCoupon)
}

func setupResaleRoutes(router fiber.Router, h *handlers.ResaleHandler) {
	r := router.Group("/resale", middleware.HasPermission(models.PermissionCouponTrade))

	r.Post("/list", h.ListForResale)
	r.Post("/purchase", h.PurchaseFromResale)
	r.Post("/approve", h.ApproveTransfer)
	r.Post("/transfer", h.TransferP2P)
}
