package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rfp-portal/internal/models"
)

// DraftStore persists at most one in-progress draft per vendor. Saves are
// full replacements (last write wins, server wall clock); there is no merge
// and no history. Backend failures surface as ErrDraftStoreUnavailable so
// callers never mistake an outage for "no draft".
type DraftStore struct {
	db *gorm.DB
}

func NewDraftStore(db *gorm.DB) *DraftStore {
	return &DraftStore{db: db}
}

// Load returns the vendor's draft, or ErrNotFound if none exists. Absence is
// a normal outcome for first-time authors, not a failure.
func (s *DraftStore) Load(ctx context.Context, vendorID uint) (*models.Draft, error) {
	var draft models.Draft
	err := s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("draft for vendor %d: %w", vendorID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("loading draft for vendor %d: %w", vendorID, models.ErrDraftStoreUnavailable)
	}
	return &draft, nil
}

// Save replaces the vendor's draft content wholesale and stamps the save
// time. The vendor-id unique index plus an upsert keeps the slot single-row
// even under concurrent saves from the same client.
func (s *DraftStore) Save(ctx context.Context, vendorID uint, content models.DraftContent) (*models.Draft, error) {
	draft := models.Draft{
		VendorID:    vendorID,
		Content:     content,
		LastSavedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vendor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "last_saved_at"}),
		}).
		Create(&draft).Error
	if err != nil {
		return nil, fmt.Errorf("saving draft for vendor %d: %w", vendorID, models.ErrDraftStoreUnavailable)
	}
	return &draft, nil
}

// Delete removes the vendor's draft. Deleting an absent draft is not an
// error; submission cleanup and explicit discard both rely on that.
func (s *DraftStore) Delete(ctx context.Context, vendorID uint) error {
	result := s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Delete(&models.Draft{})
	if result.Error != nil {
		return fmt.Errorf("deleting draft for vendor %d: %w", vendorID, models.ErrDraftStoreUnavailable)
	}
	return nil
}
