package analytics

import (
	"fmt"
	"time"
)

// PeriodRange resolves a named period relative to now. Ranges are in UTC and
// end-exclusive; periods that include today end at the start of tomorrow.
func PeriodRange(period string, now time.Time) (DateRange, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	switch period {
	case "this_month":
		return DateRange{Start: monthStart, End: tomorrow}, nil
	case "last_month":
		return DateRange{Start: monthStart.AddDate(0, -1, 0), End: monthStart}, nil
	case "last_90_days":
		return DateRange{Start: today.AddDate(0, 0, -89), End: tomorrow}, nil
	case "", "last_12_months":
		return DateRange{Start: monthStart.AddDate(0, -11, 0), End: tomorrow}, nil
	case "this_year":
		return DateRange{Start: yearStart, End: tomorrow}, nil
	case "last_year":
		return DateRange{Start: yearStart.AddDate(-1, 0, 0), End: yearStart}, nil
	}
	return DateRange{}, fmt.Errorf("unknown period %q", period)
}

// Previous returns the range of equal length right before r.
func (r DateRange) Previous() DateRange {
	return DateRange{Start: r.Start.Add(-r.End.Sub(r.Start)), End: r.Start}
}

// MonthlyRanges splits r into calendar-month buckets clipped to r.
func MonthlyRanges(r DateRange) []DateRange {
	var ranges []DateRange
	current := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, time.UTC)

	for current.Before(r.End) {
		next := current.AddDate(0, 1, 0)
		bucket := DateRange{Start: current, End: next}
		if bucket.Start.Before(r.Start) {
			bucket.Start = r.Start
		}
		if bucket.End.After(r.End) {
			bucket.End = r.End
		}
		ranges = append(ranges, bucket)
		current = next
	}
	return ranges
}
