package analytics

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CountQuery counts rows of a table matching simple filters.
type CountQuery struct {
	Table     string
	Filters   map[string]interface{}
	DateField string
	DateRange *DateRange
}

// Aggregator provides database aggregation helpers for dashboards
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Count runs SELECT COUNT(*) for q. Filter keys containing "?" are used as
// raw conditions, other keys are compared for equality.
func (a *Aggregator) Count(ctx context.Context, q CountQuery) (int64, error) {
	db := a.db.WithContext(ctx).Table(q.Table)

	for condition, value := range q.Filters {
		if strings.Contains(condition, "?") {
			db = db.Where(condition, value)
		} else {
			db = db.Where(fmt.Sprintf("%s = ?", condition), value)
		}
	}

	if q.DateRange != nil && q.DateField != "" {
		db = db.Where(fmt.Sprintf("%s >= ? AND %s < ?", q.DateField, q.DateField),
			q.DateRange.Start, q.DateRange.End)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Table, err)
	}
	return count, nil
}
