package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rfp-portal/internal/models"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	allModels := []interface{}{
		&models.Vendor{},
		&models.AdminUser{},
		&models.Draft{},
		&models.Submission{},
		&models.Question{},
	}

	for _, model := range allModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedAdmin creates the initial admin account if no admin exists yet. A
// no-op when email or password is unset or an admin is already present.
func SeedAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := DB.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed admin password: %w", err)
	}

	admin := models.AdminUser{
		Name:         "Portal Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "reviewer",
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("creating seed admin: %w", err)
	}

	log.Printf("Seed admin created: %s", email)
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
