package repository

import (
	"gorm.io/gorm"

	"github.com/myhome-api/internal/models"
)

// ReviewRepository handles review data access
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review
func (r *ReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// ListByProperty retrieves all reviews for a property
func (r *ReviewRepository) ListByProperty(propertyID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("property_id = ?", propertyID).Order("id").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByUser retrieves all reviews written by a user
func (r *ReviewRepository) ListByUser(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
