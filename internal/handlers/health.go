package handlers

import (
	"couponvault/internal/repositories"
	"couponvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports database and cache connectivity.
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "ok",
		"database": "ok",
		"cache":    "ok",
	}

	if repositories.DB == nil {
		status["status"] = "degraded"
		status["database"] = "unavailable"
	} else if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	}

	if repositories.CacheService == nil {
		status["status"] = "degraded"
		status["cache"] = "unavailable"
	} else if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
		status["status"] = "degraded"
		status["cache"] = "unreachable"
	}

	return utils.Success(c, status)
}
