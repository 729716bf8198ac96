package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a settled amount at a point in time.
type Payment struct {
	PaidAt   time.Time
	Amount   decimal.Decimal
	Currency string
}

// MonthBucket totals payments of one currency in one month.
type MonthBucket struct {
	Label string
	Range DateRange
	Total decimal.Decimal
	Count int
}

// RevenueByMonth buckets payments per currency and calendar month. Every
// month of r gets a bucket so chart series line up.
func RevenueByMonth(payments []Payment, r DateRange) map[string][]MonthBucket {
	months := MonthlyRanges(r)
	out := make(map[string][]MonthBucket)

	for _, p := range payments {
		if !r.Contains(p.PaidAt) {
			continue
		}
		buckets, ok := out[p.Currency]
		if !ok {
			buckets = make([]MonthBucket, len(months))
			for i, m := range months {
				buckets[i] = MonthBucket{Label: m.Start.Format("2006-01"), Range: m, Total: decimal.Zero}
			}
			out[p.Currency] = buckets
		}
		for i := range buckets {
			if buckets[i].Range.Contains(p.PaidAt) {
				buckets[i].Total = buckets[i].Total.Add(p.Amount)
				buckets[i].Count++
				break
			}
		}
	}
	return out
}

// ToLineChart renders per-currency buckets as one line series per currency.
func ToLineChart(byCurrency map[string][]MonthBucket, r DateRange) ChartData {
	months := MonthlyRanges(r)
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Start.Format("2006-01")
	}

	currencies := make([]string, 0, len(byCurrency))
	for c := range byCurrency {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	series := make([]ChartSeries, 0, len(currencies))
	for _, c := range currencies {
		values := make([]float64, len(byCurrency[c]))
		for i, b := range byCurrency[c] {
			values[i] = b.Total.InexactFloat64()
		}
		series = append(series, ChartSeries{Name: c, Values: values})
	}

	return ChartData{Type: "line", Labels: labels, Data: series}
}

// Sum totals payments per currency.
func Sum(payments []Payment) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, p := range payments {
		totals[p.Currency] = totals[p.Currency].Add(p.Amount)
	}
	return totals
}

// Change returns the percentage change from previous to current and its
// trend. A zero previous value has no meaningful change.
func Change(current, previous decimal.Decimal) (float64, string) {
	if previous.IsZero() {
		if current.IsPositive() {
			return 0, "up"
		}
		return 0, "neutral"
	}
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	switch {
	case change > 0:
		return change, "up"
	case change < 0:
		return change, "down"
	default:
		return change, "neutral"
	}
}
