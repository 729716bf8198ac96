package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/cache"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

// PlanService serves the plan catalog through a read-through cache. Plans
// only change when the seeder runs, so entries live for the configured TTL.
type PlanService struct {
	repo  repositories.PlanRepo
	plans *cache.TTL[uuid.UUID, models.Plan]
	lists *cache.TTL[bool, []models.Plan]
}

func NewPlanService(repo repositories.PlanRepo, ttl time.Duration) *PlanService {
	return &PlanService{
		repo:  repo,
		plans: cache.NewTTL[uuid.UUID, models.Plan](ttl),
		lists: cache.NewTTL[bool, []models.Plan](ttl),
	}
}

func (s *PlanService) List(ctx context.Context, activeOnly bool) ([]models.Plan, error) {
	if plans, ok := s.lists.Get(activeOnly); ok {
		return plans, nil
	}
	plans, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apperr.FromDB(err, "plan")
	}
	s.lists.Set(activeOnly, plans)
	for _, p := range plans {
		s.plans.Set(p.ID, p)
	}
	return plans, nil
}

func (s *PlanService) Get(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	if plan, ok := s.plans.Get(id); ok {
		return &plan, nil
	}
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "plan")
	}
	s.plans.Set(plan.ID, *plan)
	return plan, nil
}

// ForSelection loads the catalog plan behind a selection. Custom plans have
// no catalog entry and yield nil. An unknown plan id is a validation error on
// field.
func (s *PlanService) ForSelection(ctx context.Context, sel pricing.PlanSelection, field string) (*models.Plan, error) {
	if sel.IsCustom() {
		return nil, nil
	}
	plan, err := s.Get(ctx, sel.PlanID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation(field, "does not match any plan")
	}
	return plan, err
}

// Invalidate drops cached plans, e.g. after seeding.
func (s *PlanService) Invalidate() {
	s.plans.Purge()
	s.lists.Purge()
}

// RunJanitor evicts expired cache entries until ctx is done.
func (s *PlanService) RunJanitor(ctx context.Context, interval time.Duration) {
	go s.lists.RunJanitor(ctx, interval)
	s.plans.RunJanitor(ctx, interval)
}

func configOf(plan *models.Plan) *pricing.PlanConfiguration {
	if plan == nil {
		return nil
	}
	cfg := plan.Configuration
	return &cfg
}
