package invoicing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

type Status string

const (
	StatusGenerated Status = "GENERATED"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusGenerated, StatusPaid, StatusOverdue:
		return Status(s), true
	}
	return "", false
}

// ResolveAmount picks the invoice amount: the override verbatim when given,
// the computed final cost otherwise.
func ResolveAmount(finalCost decimal.Decimal, override *decimal.Decimal) (amount decimal.Decimal, overridden bool, err error) {
	if override == nil {
		return finalCost, false, nil
	}
	if override.IsNegative() {
		return decimal.Zero, false, apperr.Validation("amountOverride", "must not be negative")
	}
	return *override, true, nil
}

// IsPastDue reports whether the due date's calendar day is over at now.
func IsPastDue(dueDate, now time.Time) bool {
	return DateOnly(now).After(DateOnly(dueDate))
}

// EffectiveStatus derives the status shown to users. Unpaid invoices past
// their due date read as overdue even before the sweep persists it.
func EffectiveStatus(stored Status, dueDate, now time.Time) Status {
	if stored == StatusGenerated && IsPastDue(dueDate, now) {
		return StatusOverdue
	}
	return stored
}

// CanMarkPaid rejects invoices that are already settled.
func CanMarkPaid(stored Status) error {
	if stored == StatusPaid {
		return apperr.Conflict("invoice already paid")
	}
	return nil
}

// FormatNumber builds invoice numbers like INV-202403-0007.
func FormatNumber(prefix string, month, year, seq int) string {
	return fmt.Sprintf("%s-%04d%02d-%04d", prefix, year, month, seq)
}

// NumberPrefix is the per-period part shared by all numbers of a month.
func NumberPrefix(prefix string, month, year int) string {
	return fmt.Sprintf("%s-%04d%02d-", prefix, year, month)
}

// NextSequence returns one past the highest numeric suffix among numbers
// sharing periodPrefix. Suffixes that are not plain digits are ignored.
func NextSequence(periodPrefix string, numbers []string) int {
	highest := 0
	for _, n := range numbers {
		suffix, ok := strings.CutPrefix(n, periodPrefix)
		if !ok || suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
			continue
		}
		seq, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest + 1
}
