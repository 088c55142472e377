package models

import "time"

// Draft is the single-slot, vendor-private working copy of a proposal. At
// most one row exists per vendor; every save replaces the content wholesale.
type Draft struct {
	ID          uint         `gorm:"primaryKey" json:"-"`
	VendorID    uint         `gorm:"not null;uniqueIndex" json:"vendor_id"`
	Content     DraftContent `gorm:"serializer:json" json:"content"`
	LastSavedAt time.Time    `json:"last_saved_at"`
}

func (Draft) TableName() string {
	return "drafts"
}
