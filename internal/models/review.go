package models

import "time"

// Review is a rating and comment left on a property by a user.
// There is no update or delete path for reviews.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	PropertyID uint      `gorm:"index;not null" json:"property_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"size:1000" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Review model
func (Review) TableName() string {
	return "reviews"
}
