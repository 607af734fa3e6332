package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/myhome-api/internal/models"
)

var (
	ErrWishlistEntryNotFound = errors.New("wishlist entry not found")
)

// WishlistRepository handles wishlist data access
type WishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a new WishlistRepository
func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Create inserts a wishlist entry
func (r *WishlistRepository) Create(entry *models.WishlistEntry) error {
	return r.db.Create(entry).Error
}

// Exists reports whether the (user, property) pair is already saved
func (r *WishlistRepository) Exists(userID, propertyID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WishlistEntry{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser retrieves all wishlist entries for a user
func (r *WishlistRepository) ListByUser(userID uint) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes a (user, property) pair and returns the removed count
func (r *WishlistRepository) Delete(userID, propertyID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.WishlistEntry{})
	return result.RowsAffected, result.Error
}

// DeleteByProperty removes every entry referencing a property. Used as
// referential cleanup when a property is deleted.
func (r *WishlistRepository) DeleteByProperty(propertyID uint) error {
	return r.db.Where("property_id = ?", propertyID).Delete(&models.WishlistEntry{}).Error
}

// DeleteByUser removes every entry belonging to a user
func (r *WishlistRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.WishlistEntry{}).Error
}
