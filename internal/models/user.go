package models

import (
	"time"
)

// User represents a registered account. Email is stored lowercase and unique.
// A user stays inactive until the email verification token is redeemed.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	PhoneNumber    string    `gorm:"size:32" json:"phone_number"`
	IsActive       bool      `gorm:"not null;default:false" json:"is_active"`
	Plan           string    `gorm:"size:16;not null;default:Basic" json:"plan"`
	ProfilePicture string    `gorm:"size:255" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
