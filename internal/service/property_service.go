package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"sync"

	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/storage"
	"github.com/myhome-api/pkg/objectkey"
)

var (
	ErrValidation   = errors.New("invalid property data")
	ErrNoProperties = errors.New("no properties found for this owner")
)

// QuotaExceededError rejects a creation that would push an owner past the
// listing limit of their plan.
type QuotaExceededError struct {
	Plan  string
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("you have reached the limit of %d properties on the %s plan, upgrade to a higher plan", e.Limit, e.Plan)
}

// PartialUploadError reports a property whose record exists but whose image
// uploads failed partway. The keys that made it up stay attached to the
// record so the partial state is discoverable instead of silent.
type PartialUploadError struct {
	PropertyID uint
	Uploaded   []string
	Filename   string
	Err        error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("property %d created with %d image(s); upload of %q failed: %v",
		e.PropertyID, len(e.Uploaded), e.Filename, e.Err)
}

func (e *PartialUploadError) Unwrap() error { return e.Err }

// PropertyService handles the listing lifecycle: plan-gated creation,
// ownership-scoped reads and mutations, and image bookkeeping against the
// object store.
type PropertyService struct {
	properties *repository.PropertyRepository
	wishlist   *repository.WishlistRepository
	store      storage.ObjectStore

	// per-owner locks serialize the quota check with the insert; without
	// them two concurrent creations can both pass the check
	locks sync.Map
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	properties *repository.PropertyRepository,
	wishlist *repository.WishlistRepository,
	store storage.ObjectStore,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		wishlist:   wishlist,
		store:      store,
	}
}

// CreateRequest carries the scalar fields and nested sub-objects of a new
// listing. Images travel separately as multipart files.
type CreateRequest struct {
	Name         string
	Price        float64
	PropertyType string
	PhoneNumber  string
	Location     models.PropertyLocation
	Features     models.PropertyFeatures
}

func (r *CreateRequest) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if r.Features.NumberOfRooms < 0 || r.Features.NumberOfToilets < 0 {
		return fmt.Errorf("%w: room counts must not be negative", ErrValidation)
	}
	return nil
}

// PropertyView is a read model: the stored image keys are resolved to
// presigned URLs, generated fresh on every read.
type PropertyView struct {
	models.Property
	Images []string `json:"images"`
}

// Create inserts a listing for the owner and then attaches its images as a
// second write phase. The quota check and the insert run under a per-owner
// lock. Image uploads are not rolled back: on failure the record keeps the
// keys uploaded so far and a *PartialUploadError is returned.
func (s *PropertyService) Create(ctx context.Context, owner *models.User, req *CreateRequest, images []*multipart.FileHeader) (*models.Property, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	property, err := s.insertWithinQuota(owner, req)
	if err != nil {
		return nil, err
	}

	uploaded := make(models.StringList, 0, len(images))
	for _, file := range images {
		key := objectkey.ForPropertyImage(owner.ID, property.ID, file.Filename)
		if err := s.uploadFile(ctx, key, file); err != nil {
			if patchErr := s.properties.SetImages(property.ID, uploaded); patchErr != nil {
				log.Printf("property: failed to record partial images for %d: %v", property.ID, patchErr)
			}
			property.Images = uploaded
			return property, &PartialUploadError{
				PropertyID: property.ID,
				Uploaded:   uploaded,
				Filename:   file.Filename,
				Err:        err,
			}
		}
		uploaded = append(uploaded, key)
	}

	if err := s.properties.SetImages(property.ID, uploaded); err != nil {
		return property, err
	}
	property.Images = uploaded
	return property, nil
}

func (s *PropertyService) insertWithinQuota(owner *models.User, req *CreateRequest) (*models.Property, error) {
	mu := s.ownerLock(owner.ID)
	mu.Lock()
	defer mu.Unlock()

	count, err := s.properties.CountByOwner(owner.ID)
	if err != nil {
		return nil, err
	}
	plan := owner.Plan
	if _, ok := models.PlanByName(plan); !ok {
		plan = models.PlanBasic
	}
	limit := models.QuotaFor(plan)
	if count >= int64(limit) {
		return nil, &QuotaExceededError{Plan: plan, Limit: limit}
	}

	property := &models.Property{
		OwnerID:      owner.ID,
		Name:         req.Name,
		Price:        req.Price,
		PropertyType: req.PropertyType,
		PhoneNumber:  req.PhoneNumber,
		Location:     req.Location,
		Features:     req.Features,
		Images:       models.StringList{},
	}
	if err := s.properties.Create(property); err != nil {
		return nil, err
	}
	return property, nil
}

// ListAll returns every listing with presigned image URLs
func (s *PropertyService) ListAll(ctx context.Context) ([]PropertyView, error) {
	properties, err := s.properties.ListAll()
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, properties)
}

// ListByOwner returns an owner's listings. An owner with zero listings gets
// ErrNoProperties rather than an empty list; the HTTP layer maps it to 404.
func (s *PropertyService) ListByOwner(ctx context.Context, ownerID uint) ([]PropertyView, error) {
	properties, err := s.properties.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrNoProperties
	}
	return s.toViews(ctx, properties)
}

// Get returns a single listing with presigned image URLs
func (s *PropertyService) Get(ctx context.Context, id uint) (*PropertyView, error) {
	property, err := s.properties.GetByID(id)
	if err != nil {
		return nil, err
	}
	view, err := s.toView(ctx, *property)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdateRequest carries the patchable listing fields; only supplied fields
// change. A supplied Location or Features replaces the whole sub-object.
type UpdateRequest struct {
	Name         *string
	Price        *float64
	PropertyType *string
	PhoneNumber  *string
	Location     *models.PropertyLocation
	Features     *models.PropertyFeatures
}

// Update patches a listing scoped to its owner. New images, if supplied,
// replace the existing image list entirely; the replaced objects are
// deleted from the store best-effort.
func (s *PropertyService) Update(ctx context.Context, id, ownerID uint, req *UpdateRequest, newImages []*multipart.FileHeader) error {
	property, err := s.properties.GetByIDAndOwner(id, ownerID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		fields["price"] = *req.Price
	}
	if req.PropertyType != nil {
		fields["property_type"] = *req.PropertyType
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}
	if req.Location != nil {
		fields["location_street_address"] = req.Location.StreetAddress
		fields["location_area"] = req.Location.Area
		fields["location_state"] = req.Location.State
	}
	if req.Features != nil {
		if req.Features.NumberOfRooms < 0 || req.Features.NumberOfToilets < 0 {
			return fmt.Errorf("%w: room counts must not be negative", ErrValidation)
		}
		fields["feature_number_of_rooms"] = req.Features.NumberOfRooms
		fields["feature_number_of_toilets"] = req.Features.NumberOfToilets
		fields["feature_running_water"] = req.Features.RunningWater
		fields["feature_pop_available"] = req.Features.POPAvailable
	}

	if len(newImages) > 0 {
		uploaded := make(models.StringList, 0, len(newImages))
		for _, file := range newImages {
			key := objectkey.ForPropertyImage(ownerID, id, file.Filename)
			if err := s.uploadFile(ctx, key, file); err != nil {
				for _, k := range uploaded {
					if delErr := s.store.Delete(ctx, k); delErr != nil {
						log.Printf("property: failed to clean up %s after aborted update: %v", k, delErr)
					}
				}
				return err
			}
			uploaded = append(uploaded, key)
		}
		fields["images"] = uploaded

		for _, old := range property.Images {
			if err := s.store.Delete(ctx, old); err != nil {
				log.Printf("property: failed to delete replaced image %s: %v", old, err)
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return s.properties.UpdateFields(id, ownerID, fields)
}

// Delete removes a listing scoped to its owner. Every image object gets a
// deletion attempt before the record goes away; store failures are logged
// and do not keep the record alive.
func (s *PropertyService) Delete(ctx context.Context, id, ownerID uint) error {
	property, err := s.properties.GetByIDAndOwner(id, ownerID)
	if err != nil {
		return err
	}

	for _, key := range property.Images {
		if err := s.store.Delete(ctx, key); err != nil {
			log.Printf("property: failed to delete image %s of property %d: %v", key, id, err)
		}
	}

	if err := s.properties.Delete(id, ownerID); err != nil {
		return err
	}
	if err := s.wishlist.DeleteByProperty(id); err != nil {
		log.Printf("property: failed to clear wishlist entries for %d: %v", id, err)
	}
	return nil
}

func (s *PropertyService) ownerLock(ownerID uint) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(ownerID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *PropertyService) uploadFile(ctx context.Context, key string, file *multipart.FileHeader) error {
	f, err := file.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return s.store.Upload(ctx, key, contentTypeOf(file), f)
}

func (s *PropertyService) toViews(ctx context.Context, properties []models.Property) ([]PropertyView, error) {
	views := make([]PropertyView, 0, len(properties))
	for _, p := range properties {
		view, err := s.toView(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *PropertyService) toView(ctx context.Context, p models.Property) (PropertyView, error) {
	urls := make([]string, 0, len(p.Images))
	for _, key := range p.Images {
		url, err := s.store.PresignGet(ctx, key, storage.PresignTTL)
		if err != nil {
			return PropertyView{}, err
		}
		urls = append(urls, url)
	}
	return PropertyView{Property: p, Images: urls}, nil
}
