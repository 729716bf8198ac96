package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

type AssignmentRepo interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Assignment, error)
	ListByClients(ctx context.Context, clientIDs []uuid.UUID) ([]models.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepo {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Preload("Sdr").First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Sdr").
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

// ListByClients returns assignments of all given clients, oldest first.
func (r *assignmentRepo) ListByClients(ctx context.Context, clientIDs []uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if len(clientIDs) == 0 {
		return assignments, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Sdr").
		Where("client_id IN ?", clientIDs).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
