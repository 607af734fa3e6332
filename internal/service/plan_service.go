package service

import (
	"errors"

	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
)

var (
	ErrPlanNotFound       = errors.New("plan not found")
	ErrUpgradeNotRequired = errors.New("current plan limit not reached yet")
	ErrMaximumPlanReached = errors.New("maximum plan reached")
)

// PlanService exposes the static pricing catalog and the single plan
// transition: a one-step upgrade once the current quota is exhausted.
// There is no downgrade path.
type PlanService struct {
	users      *repository.UserRepository
	properties *repository.PropertyRepository
}

// NewPlanService creates a new PlanService
func NewPlanService(users *repository.UserRepository, properties *repository.PropertyRepository) *PlanService {
	return &PlanService{
		users:      users,
		properties: properties,
	}
}

// List returns the catalog in upgrade order
func (s *PlanService) List() []models.PlanBase {
	return models.Plans
}

// Get looks up a catalog entry by name
func (s *PlanService) Get(name string) (models.PlanBase, error) {
	plan, ok := models.PlanByName(name)
	if !ok {
		return models.PlanBase{}, ErrPlanNotFound
	}
	return plan, nil
}

// Upgrade advances a user to the next plan. The staircase only moves when
// the current plan's quota is exhausted; at Premium there is nowhere to go.
func (s *PlanService) Upgrade(user *models.User) (string, error) {
	current := user.Plan
	if _, ok := models.PlanByName(current); !ok {
		current = models.PlanBasic
	}

	count, err := s.properties.CountByOwner(user.ID)
	if err != nil {
		return "", err
	}
	if count < int64(models.QuotaFor(current)) {
		return "", ErrUpgradeNotRequired
	}

	next, ok := models.NextPlan(current)
	if !ok {
		return "", ErrMaximumPlanReached
	}
	if err := s.users.UpdateFields(user.ID, map[string]interface{}{"plan": next}); err != nil {
		return "", err
	}
	return next, nil
}
