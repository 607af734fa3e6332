package models

import "time"

// WishlistEntry links a user to a saved property. The pair is unique; saving
// a property carries no ownership semantics.
type WishlistEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_wishlist_user_property;not null" json:"user_id"`
	PropertyID uint      `gorm:"uniqueIndex:idx_wishlist_user_property;not null" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for WishlistEntry model
func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}
