package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rfp-portal/internal/models"
)

// ErrInvalidCredentials covers unknown email and wrong password alike; the
// login response never reveals which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles vendor registration and vendor/admin login.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// RegisterVendor creates a vendor account with a hashed password.
func (s *AuthService) RegisterVendor(companyName, contactName, email, password string) (*models.Vendor, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.Vendor
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, &models.ValidationError{Fields: []models.FieldError{
			{Field: "email", Message: "an account with this email already exists"},
		}}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking existing vendor: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	vendor := models.Vendor{
		CompanyName:  companyName,
		ContactName:  contactName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&vendor).Error; err != nil {
		return nil, fmt.Errorf("creating vendor: %w", err)
	}

	log.Printf("New vendor registered: %s (ID: %d)", email, vendor.ID)
	return &vendor, nil
}

// LoginVendor verifies vendor credentials.
func (s *AuthService) LoginVendor(email, password string) (*models.Vendor, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var vendor models.Vendor
	if err := s.db.Where("email = ?", email).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetching vendor: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &vendor, nil
}

// LoginAdmin verifies admin credentials.
func (s *AuthService) LoginAdmin(email, password string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var admin models.AdminUser
	if err := s.db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetching admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}
