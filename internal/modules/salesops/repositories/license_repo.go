package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

type LicenseRepo interface {
	Create(ctx context.Context, license *models.License) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.License, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.License, error)
	CountByClients(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID]int, error)
	Update(ctx context.Context, license *models.License) error
}

type licenseRepo struct {
	db *gorm.DB
}

func NewLicenseRepo(db *gorm.DB) LicenseRepo {
	return &licenseRepo{db: db}
}

func (r *licenseRepo) Create(ctx context.Context, license *models.License) error {
	return r.db.WithContext(ctx).Create(license).Error
}

func (r *licenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.License, error) {
	var license models.License
	if err := r.db.WithContext(ctx).First(&license, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.License, error) {
	var licenses []models.License
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_date ASC").
		Find(&licenses).Error
	return licenses, err
}

// CountByClients returns the number of licenses per client.
func (r *licenseRepo) CountByClients(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(clientIDs))
	if len(clientIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ClientID uuid.UUID
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.License{}).
		Select("client_id, COUNT(*) AS total").
		Where("client_id IN ?", clientIDs).
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ClientID] = int(row.Total)
	}
	return counts, nil
}

func (r *licenseRepo) Update(ctx context.Context, license *models.License) error {
	return r.db.WithContext(ctx).Save(license).Error
}
