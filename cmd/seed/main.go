// Seeds the admin account and its wallet. Run once per environment.
package main

import (
	"log"
	"os"

	"couponvault/internal/config"
	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	var existingAdmin models.User
	if err := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	address, err := utils.NewAddress()
	if err != nil {
		log.Fatal("Failed to generate address:", err)
	}

	adminUser := models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Name:         "Administrator",
		Address:      address,
		Role:         "admin",
		Status:       "active",
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	// The platform fee wallet doubles as the admin wallet when
	// PLATFORM_ADDRESS is not set separately.
	adminWallet := models.Wallet{
		Address: address,
		Balance: 0,
		Status:  "active",
	}
	if err := repositories.DB.Create(&adminWallet).Error; err != nil {
		log.Fatal("Failed to create admin wallet:", err)
	}

	log.Println("Admin account created successfully")
	log.Printf("Admin ledger address: %s", address)
}
