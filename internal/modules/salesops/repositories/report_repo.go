package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

// ReportTotals sums the achievement counters of a client's reports.
type ReportTotals struct {
	ClientID          uuid.UUID
	PositiveResponses int64
	MeetingsBooked    int64
}

type ReportRepo interface {
	Create(ctx context.Context, report *models.Report) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]models.Report, error)
	TotalsByClients(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID]ReportTotals, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// ListByClient returns the newest reports first, at most limit of them.
func (r *reportRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) TotalsByClients(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID]ReportTotals, error) {
	totals := make(map[uuid.UUID]ReportTotals, len(clientIDs))
	if len(clientIDs) == 0 {
		return totals, nil
	}

	var rows []ReportTotals
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("client_id, " +
			"COALESCE(SUM(inmail_positive_responses + connection_positive_responses), 0) AS positive_responses, " +
			"COALESCE(SUM(meetings_booked), 0) AS meetings_booked").
		Where("client_id IN ?", clientIDs).
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.ClientID] = row
	}
	return totals, nil
}
