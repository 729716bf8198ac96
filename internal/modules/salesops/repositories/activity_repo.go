package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

// ActivityRepo stores SDR updates and admin notes. Both are append-only.
type ActivityRepo interface {
	CreateUpdate(ctx context.Context, update *models.SdrUpdate) error
	ListUpdates(ctx context.Context, clientID uuid.UUID, limit int) ([]models.SdrUpdate, error)
	CreateNote(ctx context.Context, note *models.AdminNote) error
	ListNotes(ctx context.Context, clientID uuid.UUID) ([]models.AdminNote, error)
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &activityRepo{db: db}
}

func (r *activityRepo) CreateUpdate(ctx context.Context, update *models.SdrUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *activityRepo) ListUpdates(ctx context.Context, clientID uuid.UUID, limit int) ([]models.SdrUpdate, error) {
	var updates []models.SdrUpdate
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&updates).Error
	return updates, err
}

func (r *activityRepo) CreateNote(ctx context.Context, note *models.AdminNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// ListNotes returns pinned notes first, newest first within each group.
func (r *activityRepo) ListNotes(ctx context.Context, clientID uuid.UUID) ([]models.AdminNote, error) {
	var notes []models.AdminNote
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("pinned DESC, created_at DESC").
		Find(&notes).Error
	return notes, err
}
