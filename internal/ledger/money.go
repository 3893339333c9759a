package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var centsFactor = decimal.NewFromInt(100)

// ParseCents reads a decimal money amount into integer cents. Grouping
// commas and surrounding space are tolerated; more than two fractional
// digits are rejected rather than silently rounded.
func ParseCents(s string) (int64, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if trimmed == "" {
		return 0, errors.New("amount is empty")
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	cents := d.Mul(centsFactor)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return cents.IntPart(), nil
}

// CentsToUnits converts cents to whole currency units for chart
// values.
func CentsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCents renders cents as a grouped decimal with fixed two
// fractional digits ("12,345.67"). Currency symbols stay with the
// caller.
func FormatCents(cents int64) string {
	sign := ""
	abs := cents
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(abs/100), abs%100)
}
