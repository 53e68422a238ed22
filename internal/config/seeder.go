package config

import (
	"errors"
	"fmt"
	"log"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedAdminUser ensures one admin account exists. Without it nobody could
// ever approve a registered user. Skipped when ADMIN_PASSWORD is unset.
func SeedAdminUser(db *gorm.DB, cfg *Config) error {
	if cfg.Admin.Password == "" {
		log.Println("⚠️ ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("username = ?", cfg.Admin.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:        cfg.Admin.Username,
		Email:           cfg.Admin.Email,
		Password:        hashed,
		IsActive:        true,
		IsAdmin:         true,
		IsAdminApproved: true,
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Printf("✅ Admin user seeded: %s", admin.Username)
	return nil
}
