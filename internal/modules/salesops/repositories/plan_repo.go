package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

type PlanRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]models.Plan, error)
	UpsertByName(ctx context.Context, plan *models.Plan) error
}

type planRepo struct {
	db *gorm.DB
}

func NewPlanRepo(db *gorm.DB) PlanRepo {
	return &planRepo{db: db}
}

func (r *planRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) List(ctx context.Context, activeOnly bool) ([]models.Plan, error) {
	var plans []models.Plan
	query := r.db.WithContext(ctx).Model(&models.Plan{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("price_per_month ASC, name ASC").Find(&plans).Error
	return plans, err
}

// UpsertByName inserts the plan or refreshes the catalog row with the same name.
func (r *planRepo) UpsertByName(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "price_per_month", "credits_per_month",
			"requires_sdr_count", "fixed_price", "price_per_sdr", "price_per_license",
			"is_active", "updated_at",
		}),
	}).Create(plan).Error
}
