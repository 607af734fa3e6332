package service

import (
	"errors"

	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
)

// Rating bounds are inclusive.
const (
	MinRating = 0
	MaxRating = 5
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")
	ErrCommentTooShort  = errors.New("comment must be at least 5 characters")
)

// ReviewService records ratings and comments on properties. Reviews are
// append-only; there is no update or delete path.
type ReviewService struct {
	reviews    *repository.ReviewRepository
	properties *repository.PropertyRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews *repository.ReviewRepository, properties *repository.PropertyRepository) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		properties: properties,
	}
}

// Create records a review on an existing property
func (s *ReviewService) Create(userID, propertyID uint, rating int, comment string) (*models.Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrRatingOutOfRange
	}
	if len(comment) < 5 {
		return nil, ErrCommentTooShort
	}
	if _, err := s.properties.GetByID(propertyID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:     userID,
		PropertyID: propertyID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProperty returns all reviews on a property
func (s *ReviewService) ListByProperty(propertyID uint) ([]models.Review, error) {
	return s.reviews.ListByProperty(propertyID)
}

// ListByUser returns all reviews written by a user
func (s *ReviewService) ListByUser(userID uint) ([]models.Review, error) {
	return s.reviews.ListByUser(userID)
}
