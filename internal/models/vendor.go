package models

import "time"

// Vendor is a registered supplier account. Identity is passed into the core
// as an opaque vendor id on every request; session lifecycle is handled by
// the auth layer, not here.
type Vendor struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyName  string    `gorm:"size:255;not null" json:"company_name"`
	ContactName  string    `gorm:"size:255" json:"contact_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}
