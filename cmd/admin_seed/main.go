package main

import (
	"context"
	"log"
	"os"

	"cardbank/internal/config"
	"cardbank/internal/models"
	"cardbank/internal/repositories"

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
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
			}
		}

		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	var existing models.Customer
	result := repositories.DB.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		log.Println("Admin customer already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.Customer{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Name:     os.Getenv("ADMIN_NAME"),
		Role:     models.RoleAdmin,
		Status:   "active",
	}

	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin customer:", err)
	}

	if repositories.CacheService != nil {
		key := repositories.CacheService.GenerateKey("customer", "email", adminEmail)
		if err := repositories.CacheService.Delete(context.Background(), key); err != nil {
			log.Printf("⚠️ Failed to invalidate customer cache: %v", err)
		}
	}

	log.Println("✅ Admin account created successfully!")
}
