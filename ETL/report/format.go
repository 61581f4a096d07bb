package report

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

const missingValue = "n/a"

// formatCount целое с разделителями разрядов
func formatCount(v sql.NullFloat64) string {
	if !v.Valid {
		return missingValue
	}
	return humanize.Comma(int64(math.Round(v.Float64)))
}

// formatDecimal число с разделителями разрядов и двумя знаками
func formatDecimal(v sql.NullFloat64) string {
	if !v.Valid {
		return missingValue
	}
	return humanize.CommafWithDigits(v.Float64, 2)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func formatRatio(v sql.NullFloat64) string {
	if !v.Valid {
		return missingValue
	}
	return fmt.Sprintf("%.2f", v.Float64)
}
