package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// User permissions
	PermissionWalletRead  = "wallet:read"
	PermissionWalletWrite = "wallet:write"
	PermissionCouponRead  = "coupon:read"
	PermissionCouponTrade = "coupon:trade"

	// Merchant permissions
	PermissionMerchantRead  = "merchant:read"
	PermissionMerchantWrite = "merchant:write"
	PermissionCouponIssue   = "coupon:issue"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Address      string   `json:"address"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionCouponRead,
			PermissionCouponTrade,
			PermissionMerchantRead,
			PermissionMerchantWrite,
			PermissionCouponIssue,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case "merchant":
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionCouponRead,
			PermissionCouponTrade,
			PermissionMerchantRead,
			PermissionMerchantWrite,
			PermissionCouponIssue,
		}
	case "user":
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionCouponRead,
			PermissionCouponTrade,
		}
	default:
		return []string{}
	}
}
