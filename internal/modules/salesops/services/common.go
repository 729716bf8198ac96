package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/utils"
)

// PagedResult is the envelope of every paginated list.
type PagedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func newPage[T any](data []T, total int64, p models.Pagination) PagedResult[T] {
	p = p.Normalize()
	if data == nil {
		data = []T{}
	}
	return PagedResult[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(total),
	}
}

// paginate slices an in-memory result set.
func paginate[T any](all []T, p models.Pagination) PagedResult[T] {
	p = p.Normalize()
	total := int64(len(all))
	start := p.Offset()
	if start < 0 {
		start = 0
	}
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return newPage(all[start:end], total, p)
}

// Clock returns the current time. Tests replace it to pin dates.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// auditor records changes without failing the request that made them.
type auditor struct {
	svc *audit.Service
}

func (a auditor) record(ctx context.Context, e audit.Entry) {
	if a.svc == nil {
		return
	}
	if err := a.svc.Record(ctx, e); err != nil {
		utils.LogWarn("audit log write failed", map[string]interface{}{
			"entity":    e.Entity,
			"entity_id": e.EntityID,
			"action":    e.Action,
			"error":     err.Error(),
		})
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
