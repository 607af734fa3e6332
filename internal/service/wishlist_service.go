package service

import (
	"errors"

	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
)

var (
	ErrAlreadyInWishlist = errors.New("property already in wishlist")
)

// WishlistService manages a user's saved-property set. Saving a property
// carries no ownership semantics.
type WishlistService struct {
	wishlist   *repository.WishlistRepository
	properties *repository.PropertyRepository
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(wishlist *repository.WishlistRepository, properties *repository.PropertyRepository) *WishlistService {
	return &WishlistService{
		wishlist:   wishlist,
		properties: properties,
	}
}

// Add saves a property for a user. The property must exist and saving it
// twice is rejected rather than ignored.
func (s *WishlistService) Add(userID, propertyID uint) error {
	if _, err := s.properties.GetByID(propertyID); err != nil {
		return err
	}

	exists, err := s.wishlist.Exists(userID, propertyID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInWishlist
	}

	return s.wishlist.Create(&models.WishlistEntry{
		UserID:     userID,
		PropertyID: propertyID,
	})
}

// Remove drops a saved property. Removing a pair that was never added
// reports not found.
func (s *WishlistService) Remove(userID, propertyID uint) error {
	removed, err := s.wishlist.Delete(userID, propertyID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return repository.ErrWishlistEntryNotFound
	}
	return nil
}

// ListForUser returns the saved property ids for a user
func (s *WishlistService) ListForUser(userID uint) ([]uint, error) {
	entries, err := s.wishlist.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PropertyID)
	}
	return ids, nil
}
