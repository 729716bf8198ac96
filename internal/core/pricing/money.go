package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	USD Currency = "USD"
	INR Currency = "INR"
)

func ParseCurrency(s string) (Currency, bool) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case USD:
		return USD, true
	case INR:
		return INR, true
	}
	return "", false
}

func (c Currency) Symbol() string {
	switch c {
	case USD:
		return "$"
	case INR:
		return "₹"
	default:
		return string(c) + " "
	}
}

// FormatMoney renders amount with two decimals and the currency symbol,
// e.g. "$1,234.50", "-$100.00", "₹1,00,000.00".
func FormatMoney(amount decimal.Decimal, c Currency) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + c.Symbol() + FormatAmount(rounded.Abs(), c)
}

// FormatAmount renders amount with digit grouping and two decimals but no
// symbol, for output that cannot print currency glyphs.
func FormatAmount(amount decimal.Decimal, c Currency) string {
	rounded := amount.Round(2)
	s := rounded.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var grouped string
	if c == INR {
		grouped = groupIndian(intPart)
	} else {
		grouped = groupThousands(intPart)
	}

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + grouped + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian groups the last three digits, then pairs: 10000000 -> 1,00,00,000.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	rest, last := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(rest) > 2 {
		parts = append([]string{rest[len(rest)-2:]}, parts...)
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		parts = append([]string{rest}, parts...)
	}
	return strings.Join(parts, ",") + "," + last
}
