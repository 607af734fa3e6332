package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/myhome-api/internal/models"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
)

// PropertyRepository handles property data access
type PropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new PropertyRepository
func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create inserts a new property
func (r *PropertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

// GetByID retrieves a property by ID
func (r *PropertyRepository) GetByID(id uint) (*models.Property, error) {
	var property models.Property
	result := r.db.First(&property, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, result.Error
	}
	return &property, nil
}

// GetByIDAndOwner retrieves a property by ID scoped to its owner. A property
// that exists but belongs to someone else reads as not found.
func (r *PropertyRepository) GetByIDAndOwner(id, ownerID uint) (*models.Property, error) {
	var property models.Property
	result := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&property)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, result.Error
	}
	return &property, nil
}

// ListAll retrieves every property
func (r *PropertyRepository) ListAll() ([]models.Property, error) {
	var properties []models.Property
	if err := r.db.Order("id").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// ListByOwner retrieves all properties for an owner
func (r *PropertyRepository) ListByOwner(ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	if err := r.db.Where("owner_id = ?", ownerID).Order("id").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// CountByOwner counts properties for an owner
func (r *PropertyRepository) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// UpdateFields applies a partial patch to a property scoped to its owner
func (r *PropertyRepository) UpdateFields(id, ownerID uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.Property{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// SetImages replaces the stored image key list for a property
func (r *PropertyRepository) SetImages(id uint, images models.StringList) error {
	return r.db.Model(&models.Property{}).Where("id = ?", id).
		Update("images", images).Error
}

// Delete removes a property scoped to its owner
func (r *PropertyRepository) Delete(id, ownerID uint) error {
	result := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Property{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
