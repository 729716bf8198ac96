package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

type ClientRepo interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, filter models.ClientFilter) ([]models.Client, int64, error)
	ListAll(ctx context.Context, filter models.ClientFilter) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepo {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Preload("Plan").First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	query := r.filtered(ctx, filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Pagination.Normalize()
	err := query.Preload("Plan").
		Offset(page.Offset()).
		Limit(page.Limit).
		Order("created_at DESC").
		Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// ListAll returns every client matching the filter, ignoring pagination.
func (r *clientRepo) ListAll(ctx context.Context, filter models.ClientFilter) ([]models.Client, error) {
	var clients []models.Client
	err := r.filtered(ctx, filter).
		Preload("Plan").
		Order("created_at DESC").
		Find(&clients).Error
	return clients, err
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(client).Error
}

func (r *clientRepo) filtered(ctx context.Context, filter models.ClientFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Client{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		query = query.Where(`LOWER(business_name) LIKE ? ESCAPE '\' OR LOWER(contact_name) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if filter.PlanType != "" {
		query = query.Where("plan_type = ?", filter.PlanType)
	}
	if filter.SdrID != nil {
		query = query.Where("id IN (?)",
			r.db.Model(&models.Assignment{}).Select("client_id").Where("sdr_id = ?", *filter.SdrID))
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	return query
}
