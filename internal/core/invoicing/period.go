package invoicing

import (
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

const (
	minYear = 2000
	maxYear = 2100
)

// ValidatePeriod checks a billing month (1-12) and year.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return apperr.Validation("month", "must be between 1 and 12")
	}
	if year < minYear || year > maxYear {
		return apperr.Validation("year", fmt.Sprintf("must be between %d and %d", minYear, maxYear))
	}
	return nil
}

// PeriodStart is the first day of the month in UTC.
func PeriodStart(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodEnd is the last calendar day of the month in UTC.
func PeriodEnd(month, year int) time.Time {
	// day 0 of the next month normalises to the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// DefaultDates returns the invoice date and due date used when the admin
// leaves them blank.
func DefaultDates(month, year int) (invoiceDate, dueDate time.Time) {
	return PeriodStart(month, year), PeriodEnd(month, year)
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 input. Timestamps keep the
// calendar day of their own offset.
func ParseDate(field, raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, apperr.Validation(field, "must be a date in YYYY-MM-DD format")
}
