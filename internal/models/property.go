package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a list of object-store keys as a JSON text column so the
// same model works on both postgres and sqlite.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// PropertyLocation describes where a listing is located
type PropertyLocation struct {
	StreetAddress string `gorm:"size:255" json:"street_address"`
	Area          string `gorm:"size:100" json:"area"`
	State         string `gorm:"size:100" json:"state"`
}

// PropertyFeatures describes the physical features of a listing
type PropertyFeatures struct {
	NumberOfRooms   int  `json:"number_of_rooms" gorm:"check:feature_number_of_rooms >= 0"`
	NumberOfToilets int  `json:"number_of_toilets" gorm:"check:feature_number_of_toilets >= 0"`
	RunningWater    bool `json:"running_water"`
	POPAvailable    bool `json:"POP_available"`
}

// Property represents a listing owned by exactly one user. Images holds
// object-store keys, never URLs; presigned URLs are generated per read.
type Property struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	OwnerID      uint             `gorm:"index;not null" json:"owner_id"`
	Name         string           `gorm:"size:150;not null" json:"name"`
	Price        float64          `gorm:"not null;check:price >= 0" json:"price"`
	PropertyType string           `gorm:"size:50" json:"property_type"`
	PhoneNumber  string           `gorm:"size:32" json:"phone_number"`
	Location     PropertyLocation `gorm:"embedded;embeddedPrefix:location_" json:"property_location_details"`
	Features     PropertyFeatures `gorm:"embedded;embeddedPrefix:feature_" json:"property_features"`
	Images       StringList       `gorm:"type:text" json:"images"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Property model
func (Property) TableName() string {
	return "properties"
}
