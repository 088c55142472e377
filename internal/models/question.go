package models

import "time"

// Question is one vendor-to-admin Q&A message. Plain CRUD; clients poll for
// answers rather than receiving pushes.
type Question struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	VendorID   uint       `gorm:"not null;index" json:"vendor_id"`
	Vendor     Vendor     `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	Answer     string     `gorm:"type:text" json:"answer"`
	AnsweredBy *uint      `json:"answered_by,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}
