package transform

import (
	"database/sql"

	"github.com/LilVoxy/covid_tracker/ETL/models"
)

// RollingMean скользящее среднее по окну window, заканчивающемуся на текущем элементе.
// Первые window-1 окон неполные. Пустые значения пропускаются; окно, в котором меньше
// minPeriods непустых значений, дает null
func RollingMean(values []sql.NullFloat64, window, minPeriods int) []sql.NullFloat64 {
	if minPeriods < 1 {
		minPeriods = 1
	}

	out := make([]sql.NullFloat64, len(values))
	for i := range values {
		start := max(0, i-window+1)

		var (
			sum   float64
			count int
		)
		for _, v := range values[start : i+1] {
			if v.Valid {
				sum += v.Float64
				count++
			}
		}

		if count >= minPeriods {
			out[i] = models.Value(sum / float64(count))
		}
	}
	return out
}

// ApplyRollingMean заполняет NewCasesSmoothed для каждой локации отдельно.
// rows должны быть упорядочены по локации и дате; исходный срез не изменяется
func ApplyRollingMean(rows []models.EnrichedRecord, window, minPeriods int) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, len(rows))
	copy(out, rows)

	for start := 0; start < len(out); {
		end := start
		for end < len(out) && out[end].Location == out[start].Location {
			end++
		}

		values := make([]sql.NullFloat64, 0, end-start)
		for _, r := range out[start:end] {
			values = append(values, r.NewCases)
		}
		for i, v := range RollingMean(values, window, minPeriods) {
			out[start+i].NewCasesSmoothed = v
		}

		start = end
	}
	return out
}
