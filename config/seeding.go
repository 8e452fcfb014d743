package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"zurcher.dev/api/models"
)

// SeedOwnerAccount creates the initial owner login when the staff table is
// empty, so a fresh deployment can be signed into. Credentials come from
// OWNER_EMAIL / OWNER_PASSWORD; seeding is skipped when they are unset.
func SeedOwnerAccount(db *gorm.DB) {
	email := os.Getenv("OWNER_EMAIL")
	password := os.Getenv("OWNER_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	if err := db.Model(&models.Staff{}).Count(&count).Error; err != nil {
		log.Printf("[SEED] could not count staff: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[SEED] could not hash owner password: %v", err)
		return
	}

	owner := models.Staff{
		Name:     "Owner",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleOwner,
		IsActive: true,
	}
	if err := db.Create(&owner).Error; err != nil {
		log.Printf("[SEED] could not create owner account: %v", err)
		return
	}
	log.Printf("[SEED] created initial owner account %s", email)
}
